package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/RentCarLink/RentCarLink/internal/common/logger"
	"github.com/RentCarLink/RentCarLink/internal/common/tracing"
	"github.com/labstack/echo/v4"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Recovery 防止 panic 直接把进程打崩，并记录栈信息。
func Recovery(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if log != nil {
						log.Errorf("panic in http handler path=%s err=%v stack=%s",
							c.Path(), r, string(debug.Stack()))
					}
					err = echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
			}()
			return next(c)
		}
	}
}

// AccessLog 记录每个 HTTP 请求的耗时/状态/错误。
func AccessLog(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			cost := time.Since(start)

			if log != nil {
				fields := map[string]interface{}{
					"method": c.Request().Method,
					"path":   c.Request().URL.Path,
					"status": c.Response().Status,
					"cost":   cost.String(),
				}
				if err != nil {
					fields["error"] = err.Error()
					log.WithFields(fields).Warn("http request failed")
				} else {
					log.WithFields(fields).Info("http request ok")
				}
			}

			return err
		}
	}
}

// Tracing 基于 OpenTracing 的最小 server 中间件：
// - 从请求头提取上游 span context
// - 创建 server span 并注入 request context，方便业务侧 StartSpanFromContext 使用
func Tracing(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			operation := fmt.Sprintf("%s %s", req.Method, c.Path())

			span := tracing.ExtractServerSpan(req, operation)
			defer span.Finish()

			ext.Component.Set(span, "http")
			if serviceName != "" {
				span.SetTag("service", serviceName)
			}

			ctx := opentracing.ContextWithSpan(req.Context(), span)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				ext.Error.Set(span, true)
			}
			return err
		}
	}
}

// RateLimit 用令牌桶限制进入服务的请求速率，超限返回 429。
func RateLimit(bucket *TokenBucket) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if bucket != nil && !bucket.Allow(c.Request().Context()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
