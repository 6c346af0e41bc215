package constant

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// TopicVisitBloomPrefix 是话题浏览记录 Bloom Filter 的 Key 前缀。
	// 每个话题会有一个对应的 Bloom Filter Key。
	// 用于快速判断某个用户是否在一定时间内浏览过某话题，以实现防刷。
	// 示例 Key: "topic_visit_bloom:123" (其中 123 是 topicID)
	// Redis 类型: String (由 RedisBloom 模块管理)
	TopicVisitBloomPrefix = "topic_visit_bloom:"

	// TopicVisitCountPrefix 是话题浏览量计数器的 Key 前缀。
	// 每个话题会有一个对应的 String 类型的 Key，用于原子性计数。
	// 示例 Key: "topic_visit_count:123" (其中 123 是 topicID)
	// Redis 类型: String
	// 示例值: "58" (表示话题 123 的浏览量为 58)
	TopicVisitCountPrefix = "topic_visit_count:"

	// TopicsHashKey 是缓存话题简略信息的 Hash Key 名称。
	// 热门话题任务会把榜上话题的实体快照写进这个 Hash。
	// 示例字段与值: Field="123", Value=话题 JSON
	// Redis 类型: Hash
	TopicsHashKey = "topics"

	// TopicsRankKey 是全量话题按浏览量排序的 ZSet Key。
	// 浏览计数的 Lua 脚本在 INCR 的同时会同步 ZADD 到这里。
	// 示例成员与分数: Member="123", Score=58
	// Redis 类型: ZSet
	TopicsRankKey = "topic_rank"

	// HotTopicsRankKey 是热门话题榜单快照的 ZSet Key。
	// 由定时任务从 TopicsRankKey 截取前 N 名生成，供列表接口读取。
	// Redis 类型: ZSet
	HotTopicsRankKey = "hot_topic_rank"
)
