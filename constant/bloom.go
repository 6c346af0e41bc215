package constant

import "time"

// 浏览防刷 Bloom Filter 的默认参数。
const (
	BloomFilterDefaultSize      int64   = 100000
	BloomFilterDefaultErrorRate float64 = 0.01
	BloomFilterDefaultHashes    uint    = 7

	// BloomVisitTTL 是防刷过滤器的过期窗口：
	// 同一用户对同一话题的浏览在窗口内只计一次。
	BloomVisitTTL time.Duration = 12 * time.Hour
)
