package customer

import (
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

var (
	// ErrCustomerNotFound 客户不存在（或不属于当前门店）
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "客户不存在")

	// ErrCustomerInactive 客户已停用
	ErrCustomerInactive = apperrors.New(apperrors.ErrCodeBusinessError, "客户已停用")

	// ErrCreditLimitExceeded 超出信用额度
	ErrCreditLimitExceeded = apperrors.New(apperrors.ErrCodeCreditLimitExceeded, "超出信用额度")

	// ErrInvalidCreditAmount 赊账金额不能为负
	ErrInvalidCreditAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "赊账金额不能为负")
)
