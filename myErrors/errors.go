package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrUnauthorized 表示当前用户对目标资源没有操作权限
var ErrUnauthorized = errors.New("permission: operation not allowed for current user")
