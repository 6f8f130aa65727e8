package errors

import "errors"

// ErrNotFound 记录不存在：Record Store 层统一的未命中标记
var ErrNotFound = errors.New("记录不存在")

// ErrStoreFailure 底层语句准备或执行失败（详情只进日志，不外泄）
var ErrStoreFailure = errors.New("存储操作失败")
