package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "eventhub/pkg/errors"
	"eventhub/pkg/logger"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// Message answers 200 with a human-readable message and no data.
func Message(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Timestamp: now(),
	})
}

func Paginated(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}

	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Timestamp: now(),
		Data: PaginatedResponse{
			Items:      items,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("%s %s: %v", c.Request().Method, c.Path(), appErr)
		}
		return c.JSON(appErr.Status, Response{
			Success:   false,
			Message:   appErr.Message,
			Timestamp: now(),
			Error: &ErrorInfo{
				Code:    appErr.Code,
				Details: appErr.Details,
			},
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, Response{
			Success:   false,
			Message:   fmt.Sprint(httpErr.Message),
			Timestamp: now(),
			Error: &ErrorInfo{
				Code: codeForStatus(httpErr.Code),
			},
		})
	}

	logger.Error("%s %s: unexpected error: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, Response{
		Success:   false,
		Message:   "An unexpected error occurred",
		Timestamp: now(),
		Error: &ErrorInfo{
			Code: apperrors.CodeInternal,
		},
	})
}

// HTTPErrorHandler renders errors escaping handlers (unknown routes, middleware
// rejections, panics recovered by Echo) with the same envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(apperrors.StatusOf(err))
		return
	}
	if renderErr := Error(c, err); renderErr != nil {
		logger.Error("failed to render error response: %v", renderErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeBadRequest
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusConflict:
		return apperrors.CodeConflict
	case http.StatusTooManyRequests:
		return apperrors.CodeTooManyRequests
	}
	if status >= http.StatusInternalServerError {
		return apperrors.CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	fields := make(map[string]string, len(validationErr))
	var first string

	for _, err := range validationErr {
		field := toSnake(err.Field())
		param := err.Param()

		var message string
		switch err.Tag() {
		case "required":
			message = field + " is required"
		case "min":
			message = field + " must be at least " + param
		case "max":
			message = field + " must be at most " + param
		case "gte":
			message = field + " must be greater than or equal to " + param
		case "lte":
			message = field + " must be less than or equal to " + param
		case "oneof":
			message = field + " must be one of: " + param
		case "email":
			message = field + " must be a valid email address"
		case "url":
			message = field + " must be a valid URL"
		case "datetime":
			message = field + " must match the format " + param
		case "notblank":
			message = field + " must not be blank"
		default:
			message = field + " is invalid"
		}

		if first == "" {
			first = message
		}
		fields[field] = message
	}

	if first == "" {
		first = "Invalid input data"
	}

	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Message:   first,
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    apperrors.CodeValidation,
			Details: fields,
		},
	})
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
