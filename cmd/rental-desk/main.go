package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/RentCarLink/RentCarLink/internal/booking"
	"github.com/RentCarLink/RentCarLink/internal/common/config"
	"github.com/RentCarLink/RentCarLink/internal/common/discovery"
	"github.com/RentCarLink/RentCarLink/internal/common/logger"
	"github.com/RentCarLink/RentCarLink/internal/common/tracing"
	"github.com/RentCarLink/RentCarLink/internal/gateway"
	"github.com/RentCarLink/RentCarLink/internal/lookup"
)

// rental-desk 是操作员侧的命令行入口，承载预订核心：
// 查找缓存、报价、预订编排。界面层（表单/列表渲染）不在本仓库范围内，
// 这里用命令行参数代替其输入。
var (
	configPath = flag.String("config", "configs/rental-desk.json", "配置文件路径")
	customerID = flag.String("customer", "", "客户 id")
	vehicleID  = flag.String("vehicle", "", "车辆 id")
	startDate  = flag.String("start", "", "起租日期 DD/MM/YYYY")
	endDate    = flag.String("end", "", "还车日期 DD/MM/YYYY")
	quoteOnly  = flag.Bool("quote-only", false, "只报价，不提交预订")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	tracer, closer, err := tracing.InitTracer(
		"rental-desk",
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	baseURL, err := resolveGateway(cfg, log)
	if err != nil {
		log.Fatalf("failed to resolve data service: %v", err)
	}

	gw := gateway.NewClient(baseURL, time.Duration(cfg.Gateway.TimeoutSec)*time.Second)
	cache := lookup.NewCache(gw)

	ctx := context.Background()

	// 启动时一次性填充缓存；之后不自动同步，增删改后需再触发刷新
	if err := cache.RefreshAll(ctx); err != nil {
		log.Warnf("cache population incomplete: %v", err)
	}

	fmt.Println("Customers:")
	for _, opt := range cache.CustomerOptions() {
		fmt.Printf("  %s  %s\n", opt.Value, opt.Label)
	}
	fmt.Println("Vehicles:")
	for _, opt := range cache.VehicleOptions() {
		fmt.Printf("  %s  %s\n", opt.Value, opt.Label)
	}

	if *vehicleID == "" {
		return
	}

	orch := booking.NewOrchestrator(gw, cache, log)

	if *startDate != "" && *endDate != "" {
		quote, err := orch.Quote(ctx, *vehicleID, *startDate, *endDate)
		if err != nil {
			log.Fatalf("quote failed: %v", err)
		}
		fmt.Printf("Duration: %d days, base %.2f, discount %d%%, total %.2f\n",
			quote.Days, quote.Base, quote.DiscountPercent, quote.Total)
	}

	if *quoteOnly || *customerID == "" {
		return
	}

	sub, err := orch.Submit(ctx, booking.SubmitInput{
		CustomerID: *customerID,
		VehicleID:  *vehicleID,
		StartDate:  *startDate,
		EndDate:    *endDate,
	})
	if err != nil {
		// failed_partial 时记录已存在，提示措辞必须和整单失败区分开
		if sub != nil && sub.Status == booking.StatusFailedPartial {
			if errors.Is(err, gateway.ErrNoAvailability) {
				log.Fatalf("booking %s recorded but vehicle is sold out: %v", sub.Event.ID, err)
			}
			log.Fatalf("booking %s created but availability not adjusted: %v", sub.Event.ID, err)
		}
		log.Fatalf("booking failed, nothing was created: %v", err)
	}

	fmt.Printf("Booking %s confirmed, vehicle availability now %s\n", sub.Event.ID, sub.Vehicle.Available)
}

// resolveGateway 确定数据服务地址：显式 base_url 优先，否则走 Consul。
func resolveGateway(cfg *config.Config, log logger.Logger) (string, error) {
	if cfg.Gateway.BaseURL != "" {
		return cfg.Gateway.BaseURL, nil
	}

	consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Consul: %w", err)
	}
	addr, err := discovery.ResolveService(consulClient, cfg.Gateway.ServiceName)
	if err != nil {
		return "", err
	}
	log.Infof("resolved %s via Consul: %s", cfg.Gateway.ServiceName, addr)
	return "http://" + addr, nil
}
