package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/retailpos/internal/domain/event"
)

func TestAlertHandler_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := newAlertHandler(zap.New(core))

	body, err := json.Marshal(event.StockLowEvent{StoreID: 1, ProductID: 2, SKU: "MILK", CurrentStock: 3, ReorderLevel: 5})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), event.StockLow, body))
	warnings := logs.FilterMessage("商品需要补货").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "建议补货7件", warnings[0].ContextMap()["suggestion"])

	assert.NoError(t, h.Handle(context.Background(), event.StockLow, []byte("{broken")), "格式错误的消息不重新入队")
	assert.NoError(t, h.Handle(context.Background(), event.SaleCreated, body))
	assert.Equal(t, 1, logs.FilterMessage("商品需要补货").Len())
}

func TestSuggestion(t *testing.T) {
	assert.Equal(t, "建议补货10件", suggestion(event.StockLowEvent{CurrentStock: 0, ReorderLevel: 5}))
	assert.Equal(t, "请检查补货线设置", suggestion(event.StockLowEvent{CurrentStock: 0, ReorderLevel: 0}))
}
