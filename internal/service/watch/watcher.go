package watch

import (
	"context"
	"fmt"
	"time"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/monitor"
	"safe-authenticator/pkg/utils/lock"

	"github.com/ethereum/go-ethereum/common"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	lockKey = "cron:lock:watch_transactions"
	lockTTL = 30 * time.Second
)

type TransactionLoader interface {
	LoadTransactions(ctx context.Context, safe common.Address) ([]model.TransactionMeta, error)
}

// SafeResolver 返回当前选中的 Safe 地址
type SafeResolver func(ctx context.Context) (common.Address, error)

// Summary 一次刷新中各状态的交易数
type Summary map[model.State]int

// Watcher 按 cron 表达式周期性地重新分类已保存 Safe 的交易
type Watcher struct {
	cron     *cron.Cron
	schedule string
	txs      TransactionLoader
	resolve  SafeResolver
	locker   lock.DistributedLock
	timeout  time.Duration
	log      *zap.Logger
}

func NewWatcher(schedule string, txs TransactionLoader, resolve SafeResolver, locker lock.DistributedLock) *Watcher {
	return &Watcher{
		cron:     cron.New(),
		schedule: schedule,
		txs:      txs,
		resolve:  resolve,
		locker:   locker,
		timeout:  lockTTL,
		log:      logger.Named("watch"),
	}
}

func (w *Watcher) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.run); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	w.log.Info("Watch Service started", zap.String("schedule", w.schedule))
	return nil
}

// Stop 等待正在执行的任务结束
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("Watch Service stopped")
}

func (w *Watcher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	summary, err := w.Refresh(ctx)
	switch {
	case err != nil:
		w.log.Warn("watch refresh failed", zap.Error(err))
		monitor.WatchRefreshTotal.WithLabelValues("error").Inc()
	case summary == nil:
		monitor.WatchRefreshTotal.WithLabelValues("skipped").Inc()
	default:
		monitor.WatchRefreshTotal.WithLabelValues("success").Inc()
	}
}

// Refresh 执行一次刷新；其他实例持有锁时返回 (nil, nil)
func (w *Watcher) Refresh(ctx context.Context) (Summary, error) {
	locked, err := w.locker.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		w.log.Debug("watch: 已有实例在运行")
		return nil, nil
	}
	// 刷新超时后仍需释放锁
	defer w.locker.Release(context.Background(), lockKey)

	safeAddr, err := w.resolve(ctx)
	if err != nil {
		return nil, err
	}
	metas, err := w.txs.LoadTransactions(ctx, safeAddr)
	if err != nil {
		return nil, err
	}

	summary := Summary{}
	for _, m := range metas {
		summary[m.State]++
	}
	w.log.Info("watch: transactions refreshed",
		zap.String("safe", safeAddr.Hex()),
		zap.Int("total", len(metas)),
		zap.Int("pending", summary[model.StatePending]),
		zap.Int("confirmed", summary[model.StateConfirmed]),
	)
	return summary, nil
}
