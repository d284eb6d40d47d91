package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RentCarLink/RentCarLink/internal/common/config"
	"github.com/RentCarLink/RentCarLink/internal/common/discovery"
	"github.com/RentCarLink/RentCarLink/internal/common/logger"
	"github.com/RentCarLink/RentCarLink/internal/common/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HTTPRegisterFunc 用于注册业务路由。
type HTTPRegisterFunc func(e *echo.Echo) error

type RunHTTPOptions struct {
	ShutdownTimeout time.Duration
	RateLimit       *middleware.TokenBucket
}

func defaultRunHTTPOptions() RunHTTPOptions {
	return RunHTTPOptions{
		ShutdownTimeout: 5 * time.Second,
	}
}

// RunHTTPServer 统一的 HTTP 服务启动模板：
// - 初始化 echo + 中间件链
// - 注册 /healthz
// - 注册业务路由
// - 注册到 Consul（HTTP check）
// - 优雅退出
func RunHTTPServer(cfg *config.Config, log logger.Logger, register HTTPRegisterFunc, opts ...func(*RunHTTPOptions)) error {
	if cfg == nil {
		return fmt.Errorf("cfg is nil")
	}
	if log == nil {
		return fmt.Errorf("log is nil")
	}

	o := defaultRunHTTPOptions()
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}

	// 初始化 Consul 客户端（失败不阻塞服务启动）
	consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
	if err != nil {
		log.Warnf("failed to connect to Consul: %v", err)
		consulClient = nil
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// 统一中间件链（按顺序执行）
	e.Use(
		middleware.Recovery(log),            // 异常恢复，避免服务崩溃
		middleware.Tracing(cfg.Server.Name), // 链路追踪
		middleware.AccessLog(log),           // 访问日志
	)
	if o.RateLimit != nil {
		// 入口限流
		e.Use(middleware.RateLimit(o.RateLimit))
	}

	// 健康检查（供 Consul 的 HTTP check 探测）
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if register != nil {
		if err := register(e); err != nil {
			return fmt.Errorf("failed to register http routes: %w", err)
		}
	}

	// 注册到 Consul（成功才 defer 注销）
	if consulClient != nil {
		serviceID := fmt.Sprintf("%s-%s", cfg.Server.Name, uuid.New().String())
		registry := discovery.NewServiceRegistry(
			consulClient,
			serviceID,
			cfg.Server.Name,
			cfg.Server.Host,
			cfg.Server.HTTPPort,
			[]string{"http"},
		)
		if err := registry.Register(); err != nil {
			log.Warnf("failed to register service to Consul: %v", err)
		} else {
			log.Infof("Service registered to Consul: %s", serviceID)
			defer func() {
				if err := registry.Deregister(); err != nil {
					log.Warnf("failed to deregister service from Consul: %v", err)
				}
			}()
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
	log.Infof("%s starting on %s", cfg.Server.Name, addr)

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("received signal %v, shutting down...", sig)
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http serve failed: %w", err)
		}
		return nil
	}

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), o.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Warnf("http shutdown not clean: %v", err)
		return nil
	}
	log.Info("http server stopped gracefully")
	return nil
}

// WithShutdownTimeout 修改优雅退出等待时间。
func WithShutdownTimeout(d time.Duration) func(*RunHTTPOptions) {
	return func(o *RunHTTPOptions) {
		if d > 0 {
			o.ShutdownTimeout = d
		}
	}
}

// WithRateLimit 启用入口限流。
func WithRateLimit(bucket *middleware.TokenBucket) func(*RunHTTPOptions) {
	return func(o *RunHTTPOptions) {
		o.RateLimit = bucket
	}
}
