// @title           retailpos API
// @version         1.0
// @description     门店销售结算与FIFO库存台账
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appinventory "github.com/xiebiao/retailpos/internal/application/inventory"
	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/infrastructure/config"
	"github.com/xiebiao/retailpos/internal/interface/http/handler"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/metrics"
	"github.com/xiebiao/retailpos/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
		ServiceName:  cfg.App.Name,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	zlog.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
	)

	// 3. 链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.App.Name, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			zlog.Fatal("初始化链路追踪失败", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zlog.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}

	// 4. 指标
	metrics.InitMetrics()

	// 5. 依赖注入（手动组装，与wire.go中的Provider一致）
	engine, cleanup, err := buildApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	// 6. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zlog.Info("服务启动成功", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	// 7. 优雅关闭：停止接收新请求，等待进行中的结算事务完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("收到关闭信号，开始优雅关闭")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("服务关闭超时", zap.Error(err))
	}
	zlog.Info("服务已安全关闭")
}

// buildApp 组装依赖链
// Repository ← 领域服务 ← UseCase ← Handler ← Router
func buildApp(cfg *config.Config, zlog *zap.Logger) (*gin.Engine, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 基础设施层
	st, closeStorage, err := provideStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeStorage)

	redisClient, closeRedis, err := provideRedis(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRedis)

	publisher, closePublisher, err := provideEventPublisher(cfg, zlog)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	settings, err := provideSaleSettings(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// 领域层
	ledger := customer.NewCreditLedger(st.Customers)
	allocator := inventory.NewAllocator(st.Batches, st.Products, provideRecorder(st.Movements))
	numbers := sale.NewNumberGenerator(st.Sales)

	// 应用层
	createSale := appsale.NewCreateSaleUseCase(st.Tx, st.Stores, st.Products, st.Sales, ledger, allocator, numbers, publisher, settings)
	voidSale := appsale.NewVoidSaleUseCase(st.Tx, st.Products, st.Sales, ledger, allocator, publisher, settings)
	adjustStock := appinventory.NewAdjustStockUseCase(st.Tx, st.Products, allocator, publisher)
	listMovements := appinventory.NewListMovementsUseCase(st.Products, st.Movements)

	// 接口层
	auth := middleware.NewAuthMiddleware(provideJWTManager(cfg), provideTokenBlacklist(redisClient))
	saleHandler := handler.NewSaleHandler(createSale, voidSale, provideIdempotencyStore(cfg, redisClient))
	inventoryHandler := handler.NewInventoryHandler(adjustStock, listMovements)
	sessionHandler := handler.NewSessionHandler(provideTokenRevoker(redisClient))

	return provideGinEngine(cfg, zlog, auth, saleHandler, inventoryHandler, sessionHandler), cleanup, nil
}
