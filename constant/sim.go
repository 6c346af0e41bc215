package constant

// 相似图片检索常量
// 阈值与游标字段不对外开放配置，保持与既有客户端协议一致
const (
	// SimHammingThreshold 相似判定阈值：汉明距离严格小于该值的候选才入选
	SimHammingThreshold = 20

	// SimDefaultLimit 未传 limit 时每页返回的条数
	SimDefaultLimit = 3

	// SimMaxLimit limit 的上限，超过按上限截断
	SimMaxLimit = 10

	// SimCandidateBatchSize 进程内距离过滤时每次从存储层拉取的候选批大小。
	// 过滤是在粗筛结果上做的，批太小会放大查询次数，批太大浪费扫描
	SimCandidateBatchSize = 200

	// SimMaxCandidateScan 单次请求最多扫描的候选数，防止阈值内结果稀疏时全表扫尾
	SimMaxCandidateScan = 2000
)
