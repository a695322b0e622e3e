package store

import (
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

var (
	// ErrStoreNotFound 门店不存在
	ErrStoreNotFound = apperrors.New(apperrors.ErrCodeStoreNotFound, "门店不存在")

	// ErrStoreInactive 门店已停用
	ErrStoreInactive = apperrors.New(apperrors.ErrCodeBusinessError, "门店已停用")
)
