//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go；
// main.go中的buildApp是同一套Provider的手动组装版本。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appinventory "github.com/xiebiao/retailpos/internal/application/inventory"
	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/infrastructure/config"
	"github.com/xiebiao/retailpos/internal/interface/http/handler"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
)

// infrastructureSet 存储、缓存、消息
var infrastructureSet = wire.NewSet(
	provideStorage,
	wire.FieldsOf(new(*storage), "Tx", "Stores", "Products", "Batches", "Movements", "Customers", "Sales"),
	provideRedis,
	provideEventPublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	customer.NewCreditLedger,
	provideRecorder,
	inventory.NewAllocator,
	sale.NewNumberGenerator,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideSaleSettings,
	appsale.NewCreateSaleUseCase,
	appsale.NewVoidSaleUseCase,
	appinventory.NewAdjustStockUseCase,
	appinventory.NewListMovementsUseCase,
)

// interfaceSet 中间件、Handler、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	provideTokenBlacklist,
	provideIdempotencyStore,
	provideTokenRevoker,
	middleware.NewAuthMiddleware,
	handler.NewSaleHandler,
	handler.NewInventoryHandler,
	handler.NewSessionHandler,
	provideGinEngine,
)

// InitializeApp 初始化整个应用
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
