package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/domain/shared"
	"github.com/xiebiao/retailpos/internal/domain/store"
	"github.com/xiebiao/retailpos/internal/infrastructure/config"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/retailpos/internal/interface/http/handler"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	"github.com/xiebiao/retailpos/internal/interface/http/router"
	"github.com/xiebiao/retailpos/pkg/circuitbreaker"
	"github.com/xiebiao/retailpos/pkg/jwt"
	"github.com/xiebiao/retailpos/pkg/mq"
)

// storage 按database.driver选择的一组仓储和事务管理器
type storage struct {
	Tx        shared.TxManager
	Stores    store.Repository
	Products  product.Repository
	Batches   inventory.BatchRepository
	Movements inventory.MovementRepository
	Customers customer.Repository
	Sales     sale.Repository
}

// provideStorage mysql/postgres走GORM，memory使用进程内存储
func provideStorage(cfg *config.Config) (*storage, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		db := memory.NewDB()
		return &storage{
			Tx:        memory.NewTxManager(db),
			Stores:    memory.NewStoreRepository(db),
			Products:  memory.NewProductRepository(db),
			Batches:   memory.NewBatchRepository(db),
			Movements: memory.NewMovementRepository(db),
			Customers: memory.NewCustomerRepository(db),
			Sales:     memory.NewSaleRepository(db),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &storage{
		Tx:        mysql.NewTxManager(db),
		Stores:    mysql.NewStoreRepository(db),
		Products:  mysql.NewProductRepository(db),
		Batches:   mysql.NewBatchRepository(db),
		Movements: mysql.NewMovementRepository(db),
		Customers: mysql.NewCustomerRepository(db),
		Sales:     mysql.NewSaleRepository(db),
	}, cleanup, nil
}

// provideRedis redis.enabled=false时返回nil客户端
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideTokenBlacklist 未启用Redis时不检查黑名单
func provideTokenBlacklist(client *goredis.Client) middleware.TokenBlacklist {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

// provideTokenRevoker 未启用Redis时注销不可用
func provideTokenRevoker(client *goredis.Client) handler.TokenRevoker {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

// provideIdempotencyStore 未启用Redis时忽略Idempotency-Key
func provideIdempotencyStore(cfg *config.Config, client *goredis.Client) handler.IdempotencyStore {
	if client == nil {
		return nil
	}
	return redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
}

// provideEventPublisher mq.enabled=false时丢弃事件
// 代理不可用时熔断器打开，结算不受影响
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		Timeout: cfg.MQ.BreakerTimeout,
	})
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return mq.NewGuardedPublisher(publisher, breaker), cleanup, nil
}

// provideSaleSettings 业务时区，同时把配置的默认税率应用到门店领域
func provideSaleSettings(cfg *config.Config) (appsale.Settings, error) {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return appsale.Settings{}, fmt.Errorf("无效的时区%q: %w", cfg.App.Timezone, err)
	}
	store.DefaultTaxRate = decimal.NewFromFloat(cfg.App.DefaultTaxRate)
	return appsale.Settings{Location: loc}, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

func provideRecorder(movements inventory.MovementRepository) *inventory.Recorder {
	return inventory.NewRecorder(movements)
}

// provideGinEngine 设置运行模式并注册路由
func provideGinEngine(
	cfg *config.Config,
	log *zap.Logger,
	auth *middleware.AuthMiddleware,
	sales *handler.SaleHandler,
	inventoryHandler *handler.InventoryHandler,
	session *handler.SessionHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.New(router.Router{
		Log:       log,
		Auth:      auth,
		Sales:     sales,
		Inventory: inventoryHandler,
		Session:   session,
	})
}
