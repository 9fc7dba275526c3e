package main

import (
	"context"
	"flag"
	"os"

	"safe-authenticator/internal/bootstrap"
	"safe-authenticator/internal/event"
	"safe-authenticator/internal/handler"
	"safe-authenticator/internal/server"
	"safe-authenticator/internal/service/mq"
	"safe-authenticator/internal/service/watch"
	"safe-authenticator/pkg/config"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/utils/lock"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// @title Safe Authenticator API
// @version 1.0
// @description Safe co-signer authenticator: device key, transaction confirmation and transfer limits
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfgFile := flag.String("config", "", "config file (default ./config.yaml)")
	flag.Parse()

	// 0. 初始化 Config
	config.Init(*cfgFile)

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	ctx := context.Background()

	// 2. 装配核心组件
	c, err := bootstrap.New(ctx, config.Global)
	if err != nil {
		logger.Fatal("组件初始化失败", zap.Error(err))
	}
	defer c.Close()

	// 3. 首次启动生成设备助记词
	if err := c.Vault.EnsureInitialized(ctx); err != nil {
		logger.Fatal("Vault 初始化失败", zap.Error(err))
	}
	device, err := c.Vault.DeviceAddress(ctx)
	if err != nil {
		logger.Fatal("读取设备地址失败", zap.Error(err))
	}
	logger.Info("device ready", zap.String("address", device.Hex()))

	// 4. 事件发布与在途锁
	producer, err := mq.NewProducer(config.Global, c.Redis, mq.NewMemoryBroker())
	if err != nil {
		logger.Fatal("消息队列初始化失败", zap.Error(err))
	}
	defer producer.Close()

	var inFlight lock.DistributedLock = lock.NewLocalLock()
	if c.Redis != nil {
		inFlight = lock.NewRedisLock(c.Redis)
	}

	// 5. 定时刷新交易状态
	if schedule := config.Global.Watch.Schedule; schedule != "" {
		resolve := func(ctx context.Context) (common.Address, error) {
			return bootstrap.SafeAddress(ctx, c.Store)
		}
		w := watch.NewWatcher(schedule, c.Transactions, resolve, inFlight)
		if err := w.Start(); err != nil {
			logger.Fatal("Watch 初始化失败", zap.Error(err))
		}
		defer w.Stop()
	}

	// 6. HTTP
	h := handler.NewSafeHandler(handler.Deps{
		Device:       c.Vault,
		Safes:        c.Chain,
		Transactions: c.Transactions,
		Confirmer:    c.Engine,
		Limits:       c.Limits,
		Tokens:       c.Tokens,
		Lock:         inFlight,
		Events:       event.NewPublisher(producer),
	})
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, server.NewHTTPRouter(h))

	if err := app.Run(ctx); err != nil {
		logger.Error("HTTP Server failure", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("系统已退出")
}
