package sale

import (
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

var (
	// ErrSaleNotFound 销售单不存在（或不属于当前门店）
	ErrSaleNotFound = apperrors.New(apperrors.ErrCodeSaleNotFound, "销售单不存在")

	// ErrAlreadyVoided 重复作废
	ErrAlreadyVoided = apperrors.New(apperrors.ErrCodeAlreadyVoided, "销售单已作废")

	// 以下为请求参数错误（BadRequest）

	// ErrInvalidSaleStatus 当前状态不允许此操作（如已退货的单据不能作废）
	ErrInvalidSaleStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "销售单状态不允许此操作")

	ErrEmptySale            = apperrors.New(apperrors.ErrCodeInvalidParams, "销售明细不能为空")
	ErrInvalidQuantity      = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
	ErrInvalidPrice         = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负")
	ErrInvalidDiscount      = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣不合法")
	ErrInvalidAmount        = apperrors.New(apperrors.ErrCodeInvalidParams, "金额不能为负")
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的付款方式")
	ErrCustomerRequired     = apperrors.New(apperrors.ErrCodeInvalidParams, "赊账或部分付款必须指定客户")
	ErrInsufficientPayment  = apperrors.New(apperrors.ErrCodeInvalidParams, "付款金额不足")

	// ErrMalformedSaleNumber 已存在的单号无法解析（数据被外部改写）
	ErrMalformedSaleNumber = apperrors.New(apperrors.ErrCodeInternal, "销售单号格式错误")
)
