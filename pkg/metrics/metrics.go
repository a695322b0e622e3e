// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求数、耗时、处理中请求数（由middleware.Metrics记录）
//   - 结算：销售单结算/中止/作废次数、库存调整次数、结算耗时
//   - 事件：熔断器状态、领域事件发布数
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounter(metrics.SalesSettledTotal)
//	metrics.IncCounterVec(metrics.SalesAbortedTotal, map[string]string{"operation": "create_sale", "phase": "allocating", "reason": "40006"})
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值（phase、type、method），不要用sale_id这类高基数字段。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/sales/:id/void）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 结算指标

	// SalesSettledTotal 成功结算的销售单总数
	SalesSettledTotal prometheus.Counter

	// SalesAbortedTotal 中止（整体回滚）的结算总数
	// 标签：operation（create_sale/void_sale/adjust_stock）、phase（validating/allocating/settling）、reason（业务错误码）
	SalesAbortedTotal *prometheus.CounterVec

	// SalesVoidedTotal 作废的销售单总数
	SalesVoidedTotal prometheus.Counter

	// SettlementDuration 结算事务耗时
	// 标签：operation（create_sale/void_sale/adjust_stock）
	SettlementDuration *prometheus.HistogramVec

	// StockAdjustmentsTotal 手工库存调整总数
	// 标签：type（purchase/adjustment/expired/damaged）
	StockAdjustmentsTotal *prometheus.CounterVec

	// 熔断器与事件指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 领域事件发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	SalesSettledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_settled_total",
			Help: "成功结算的销售单总数",
		},
	)

	SalesAbortedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_aborted_total",
			Help: "结算中止总数",
		},
		[]string{"operation", "phase", "reason"},
	)

	SalesVoidedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_voided_total",
			Help: "作废销售单总数",
		},
	)

	SettlementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "settlement_duration_seconds",
			Help: "结算事务耗时（秒）",
			// 单店事务，行锁等待是主要耗时
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	StockAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "库存调整总数",
		},
		[]string{"type"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
