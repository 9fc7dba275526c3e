package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 业务监控指标。未调用 Init 时只是不会被 /metrics 暴露，记录本身是安全的
var (
	// ConfirmationsTotal 确认提交结果
	ConfirmationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safe_confirmations_total",
		Help: "Total number of submitted Safe transaction confirmations.",
	}, []string{"result"})

	// LimitTransfersTotal 额度转账提交结果
	LimitTransfersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safe_limit_transfers_total",
		Help: "Total number of submitted transfer-limit transfers.",
	}, []string{"result"})

	// ChainBatchDuration 一次批量 RPC 往返耗时
	ChainBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "safe_chain_batch_duration_seconds",
		Help:    "Duration of batched chain reads.",
		Buckets: prometheus.DefBuckets,
	})

	// TransactionsClassifiedTotal 按状态统计分类结果
	TransactionsClassifiedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safe_transactions_classified_total",
		Help: "Total number of classified Safe transactions by state.",
	}, []string{"state"})

	// WatchRefreshTotal 定时刷新结果 (success / error / skipped)
	WatchRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safe_watch_refresh_total",
		Help: "Total number of scheduled transaction refreshes.",
	}, []string{"result"})
)

// Result 将 error 映射为指标标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func businessCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		ConfirmationsTotal,
		LimitTransfersTotal,
		ChainBatchDuration,
		TransactionsClassifiedTotal,
		WatchRefreshTotal,
	}
}
