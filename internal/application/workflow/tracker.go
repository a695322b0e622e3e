// Package workflow 用例编排的公共部分：阶段跟踪和提交后的事件发布
package workflow

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/pkg/errors"
	"github.com/xiebiao/retailpos/pkg/metrics"
)

// Phase 工作单元的阶段
// validating → allocating → settling → committed，任何阶段失败进入aborted
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseAllocating Phase = "allocating"
	PhaseSettling   Phase = "settling"
	PhaseCommitted  Phase = "committed"
	PhaseAborted    Phase = "aborted"
)

// 操作名（日志字段和指标标签）
const (
	OpCreateSale  = "create_sale"
	OpVoidSale    = "void_sale"
	OpAdjustStock = "adjust_stock"
)

// Tracker 记录一次工作单元经过的阶段
// 中止时记下失败所在的阶段，提交或中止时上报耗时
type Tracker struct {
	log       *zap.Logger
	operation string
	current   Phase
	start     time.Time
}

// NewTracker 从validating阶段开始跟踪
func NewTracker(log *zap.Logger, operation string) *Tracker {
	metrics.InitMetrics()
	t := &Tracker{
		log:       log.With(zap.String("operation", operation)),
		operation: operation,
		start:     time.Now(),
	}
	t.Enter(PhaseValidating)
	return t
}

// Enter 进入下一阶段
func (t *Tracker) Enter(p Phase) {
	t.current = p
	t.log.Debug("进入阶段", zap.String("phase", string(p)))
}

// Current 当前阶段
func (t *Tracker) Current() Phase {
	return t.current
}

// Finish 事务结束后调用，err非nil表示已整体回滚
// 返回最终阶段（committed或aborted）
func (t *Tracker) Finish(err error) Phase {
	elapsed := time.Since(t.start)
	metrics.ObserveHistogramVec(metrics.SettlementDuration,
		map[string]string{"operation": t.operation}, elapsed.Seconds())

	if err == nil {
		t.current = PhaseCommitted
		t.log.Info("工作单元已提交", zap.Duration("elapsed", elapsed))
		return PhaseCommitted
	}

	failed := t.current
	t.current = PhaseAborted

	reason := strconv.Itoa(errors.GetAppError(err).Code)
	metrics.IncCounterVec(metrics.SalesAbortedTotal, map[string]string{
		"operation": t.operation,
		"phase":     string(failed),
		"reason":    reason,
	})

	// 业务规则拒绝属于正常流程，系统错误才需要告警
	fields := []zap.Field{zap.String("failed_phase", string(failed)), zap.String("reason", reason), zap.Error(err)}
	if errors.GetAppError(err).Code >= errors.ErrCodeInternal {
		t.log.Error("工作单元已回滚", fields...)
	} else {
		t.log.Warn("工作单元已回滚", fields...)
	}
	return PhaseAborted
}
