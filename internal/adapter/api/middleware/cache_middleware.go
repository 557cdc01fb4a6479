package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/infrastructure/cache"
	"eventhub/pkg/logger"
)

const cacheKeyPrefix = "httpcache:"

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// CacheKey is the store key for a request path and raw query.
func CacheKey(path, rawQuery string) string {
	key := cacheKeyPrefix + path
	if rawQuery != "" {
		key += "?" + rawQuery
	}
	return key
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// ResponseCache serves repeated anonymous GETs from store for ttl. Requests
// carrying credentials are never cached. A nil store disables caching.
func ResponseCache(store cache.Store, ttl time.Duration) echo.MiddlewareFunc {
	if store == nil || ttl <= 0 {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet || req.Header.Get(echo.HeaderAuthorization) != "" {
				return next(c)
			}

			ctx := req.Context()
			key := CacheKey(req.URL.Path, req.URL.RawQuery)

			if raw, ok, err := store.Get(ctx, key); err == nil && ok {
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					for k, vals := range cached.Header {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cached.Status, cached.Header.Get(echo.HeaderContentType), cached.Body)
				}
			} else if err != nil {
				logger.Warn("cache read %s: %v", key, err)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status != http.StatusOK {
				return nil
			}

			header := c.Response().Header().Clone()
			header.Del("X-Cache")
			payload, err := json.Marshal(cachedResponse{Status: cw.status, Header: header, Body: cw.buf.Bytes()})
			if err != nil {
				return nil
			}
			if err := store.Set(context.Background(), key, payload, ttl); err != nil {
				logger.Warn("cache write %s: %v", key, err)
			}
			return nil
		}
	}
}

// InvalidateCache drops cached responses under each path prefix after a
// successful write request.
func InvalidateCache(store cache.Store, prefixes ...string) echo.MiddlewareFunc {
	if store == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				return err
			}

			for _, prefix := range prefixes {
				if delErr := store.DeletePrefix(context.Background(), cacheKeyPrefix+prefix); delErr != nil {
					logger.Warn("cache invalidate %s: %v", prefix, delErr)
				}
			}
			return nil
		}
	}
}
