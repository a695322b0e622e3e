package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不会panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	require.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, SalesSettledTotal)
	assert.NotNil(t, SalesAbortedTotal)
	assert.NotNil(t, SettlementDuration)
	assert.NotNil(t, CircuitBreakerState)
}

func TestCounter(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(SalesVoidedTotal)
	IncCounter(SalesVoidedTotal)
	IncCounter(SalesVoidedTotal)

	assert.Equal(t, before+2, testutil.ToFloat64(SalesVoidedTotal))
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "create_sale", "phase": "allocating", "reason": "40006"}
	before := testutil.ToFloat64(SalesAbortedTotal.With(labels))

	IncCounterVec(SalesAbortedTotal, labels)

	assert.Equal(t, before+1, testutil.ToFloat64(SalesAbortedTotal.With(labels)))
	// 其他标签组合不受影响
	assert.Equal(t, float64(0), testutil.ToFloat64(SalesAbortedTotal.With(map[string]string{
		"operation": "void_sale", "phase": "settling", "reason": "unit-test",
	})))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsInProgress))
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, before, testutil.ToFloat64(HTTPRequestsInProgress))

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "test"}, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test")))
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	ObserveHistogramVec(SettlementDuration, map[string]string{"operation": "create_sale"}, 0.02)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(SettlementDuration), 1)
}
