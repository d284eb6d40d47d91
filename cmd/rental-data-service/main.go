package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/RentCarLink/RentCarLink/internal/common/config"
	"github.com/RentCarLink/RentCarLink/internal/common/db"
	"github.com/RentCarLink/RentCarLink/internal/common/logger"
	"github.com/RentCarLink/RentCarLink/internal/common/middleware"
	"github.com/RentCarLink/RentCarLink/internal/common/server"
	"github.com/RentCarLink/RentCarLink/internal/common/tracing"
	"github.com/RentCarLink/RentCarLink/internal/customer"
	"github.com/RentCarLink/RentCarLink/internal/rental"
	"github.com/RentCarLink/RentCarLink/internal/vehicle"
	"github.com/labstack/echo/v4"
)

var (
	configPath = flag.String("config", "configs/rental-data-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&vehicle.Vehicle{},
		&vehicle.VehicleType{},
		&customer.Customer{},
		&rental.RentalEvent{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}
	if err := vehicle.NewTypeRepo(gormDB).SeedDefaultTypes(context.Background()); err != nil {
		log.Warnf("failed to seed vehicle types: %v", err)
	}

	// 启动统一的 HTTP 服务模板
	err = server.RunHTTPServer(cfg, log, func(e *echo.Echo) error {
		vehicle.NewHandler(gormDB).Register(e)
		customer.NewHandler(gormDB).Register(e)
		rental.NewHandler(gormDB).Register(e)
		return nil
	}, server.WithRateLimit(middleware.NewTokenBucket(200, 100)))
	if err != nil {
		log.Fatalf("rental-data-service exited with error: %v", err)
	}
}
