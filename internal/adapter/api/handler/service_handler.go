package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
	"eventhub/pkg/utils"
)

type ServiceHandler struct {
	serviceUseCase *usecase.ServiceUseCase
	reviewUseCase  *usecase.ReviewUseCase
}

func NewServiceHandler(serviceUseCase *usecase.ServiceUseCase, reviewUseCase *usecase.ReviewUseCase) *ServiceHandler {
	return &ServiceHandler{
		serviceUseCase: serviceUseCase,
		reviewUseCase:  reviewUseCase,
	}
}

type createServiceRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"required,notblank,max=5000"`
	Category    string   `json:"category" validate:"required,notblank,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	PriceUnit   string   `json:"price_unit" validate:"omitempty,max=50"`
	Location    string   `json:"location" validate:"required,notblank,max=200"`
	Images      []string `json:"images" validate:"omitempty,max=20,dive,url"`
}

type updateServiceRequest struct {
	Title       *string  `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category" validate:"omitempty,notblank,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	PriceUnit   *string  `json:"price_unit" validate:"omitempty,max=50"`
	Location    *string  `json:"location" validate:"omitempty,notblank,max=200"`
	Images      []string `json:"images" validate:"omitempty,max=20,dive,url"`
	IsActive    *bool    `json:"is_active"`
}

type removeImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func parsePrice(c echo.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, errors.BadRequest(name+" must be a non-negative number", err)
	}
	return v, nil
}

func (h *ServiceHandler) ListServices(c echo.Context) error {
	minPrice, err := parsePrice(c, "minPrice")
	if err != nil {
		return response.Error(c, err)
	}
	maxPrice, err := parsePrice(c, "maxPrice")
	if err != nil {
		return response.Error(c, err)
	}
	if maxPrice > 0 && minPrice > maxPrice {
		return response.Error(c, errors.BadRequest("minPrice must not exceed maxPrice", nil))
	}

	filter := entity.ServiceFilter{
		Category:   c.QueryParam("category"),
		Location:   c.QueryParam("location"),
		ProviderID: c.QueryParam("providerId"),
		Query:      c.QueryParam("q"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}
	page := utils.GetPaginationParams(c)

	services, total, err := h.serviceUseCase.ListServices(c.Request().Context(), filter, page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, services, total, page.Page, page.PageSize)
}

func (h *ServiceHandler) GetService(c echo.Context) error {
	detail, err := h.serviceUseCase.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

func (h *ServiceHandler) CreateService(c echo.Context) error {
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	svc, err := h.serviceUseCase.CreateService(c.Request().Context(), middleware.Caller(c), usecase.CreateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		PriceUnit:   req.PriceUnit,
		Location:    req.Location,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, svc)
}

func (h *ServiceHandler) UpdateService(c echo.Context) error {
	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	svc, err := h.serviceUseCase.UpdateService(c.Request().Context(), middleware.Caller(c), c.Param("id"), usecase.UpdateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		PriceUnit:   req.PriceUnit,
		Location:    req.Location,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, svc)
}

func (h *ServiceHandler) DeleteService(c echo.Context) error {
	if err := h.serviceUseCase.DeleteService(c.Request().Context(), middleware.Caller(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Service deleted successfully")
}

func (h *ServiceHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("An image file is required in the \"image\" field", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read uploaded file", err))
	}
	defer src.Close()

	svc, err := h.serviceUseCase.UploadImage(
		c.Request().Context(),
		middleware.Caller(c),
		c.Param("id"),
		src,
		file.Header.Get(echo.HeaderContentType),
		file.Size,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, svc)
}

func (h *ServiceHandler) RemoveImage(c echo.Context) error {
	var req removeImageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	svc, err := h.serviceUseCase.RemoveImage(c.Request().Context(), middleware.Caller(c), c.Param("id"), req.URL)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, svc)
}

func (h *ServiceHandler) ListServiceReviews(c echo.Context) error {
	page := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ListReviews(c.Request().Context(), entity.ReviewFilter{ServiceID: c.Param("id")}, page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, page.Page, page.PageSize)
}
