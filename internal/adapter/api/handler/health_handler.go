package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/pkg/logger"
)

// PingFunc checks one backing dependency.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler takes named dependency checks; nil checks are skipped.
func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	active := make(map[string]PingFunc, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandler{
		checks: active,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.Error("health check %s failed: %v", name, err)
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}

	return c.JSON(status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}
