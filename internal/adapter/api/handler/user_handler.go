package handler

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
	"eventhub/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	FirstName    string `json:"first_name" validate:"omitempty,max=100"`
	LastName     string `json:"last_name" validate:"omitempty,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Bio          string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL    string `json:"avatar_url" validate:"omitempty,url"`
	BusinessName string `json:"business_name" validate:"omitempty,max=200"`
	Location     string `json:"location" validate:"omitempty,max=200"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.Caller(c).ID, usecase.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Bio:          req.Bio,
		AvatarURL:    req.AvatarURL,
		BusinessName: req.BusinessName,
		Location:     req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	err := h.userUseCase.ChangePassword(c.Request().Context(), middleware.Caller(c).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Password updated successfully")
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	page := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(c.Request().Context(), middleware.Caller(c), c.QueryParam("role"), page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, page.Page, page.PageSize)
}
