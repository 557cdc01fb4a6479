package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
)

type AuthHandler struct {
	authUseCase  *usecase.AuthUseCase
	cookieSecure bool
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authUseCase:  authUseCase,
		cookieSecure: cookieSecure,
	}
}

type registerRequest struct {
	FirstName    string `json:"first_name" validate:"required,notblank,max=100"`
	LastName     string `json:"last_name" validate:"required,notblank,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Role         string `json:"role" validate:"omitempty,oneof=customer service_provider"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	BusinessName string `json:"business_name" validate:"omitempty,max=200"`
	Location     string `json:"location" validate:"omitempty,max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
		Location:     req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.setTokenCookie(c, result.Token, result.ExpiresAt)
	return response.Created(c, authResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	h.setTokenCookie(c, result.Token, result.ExpiresAt)
	return response.Success(c, authResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// Logout clears the token cookie. Tokens are stateless, so a bearer token
// stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return response.Message(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authUseCase.Me(c.Request().Context(), middleware.Caller(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
