package constant

// 服务标识与后台任务调度常量
const (
	ServiceName    = "topic_service"
	ServiceVersion = "1.0.0"

	// SyncVisitCountInterval 浏览量从 Redis 回写 MySQL 的 cron 表达式
	SyncVisitCountInterval = "@every 5m"

	// HotTopicsCacheCronSpec 热门话题榜单快照刷新的 cron 表达式
	HotTopicsCacheCronSpec = "@every 10m"

	// HotTopicsCacheSize 热门话题榜单的长度（取总榜前 N 名）
	HotTopicsCacheSize = 100

	// COSObjectKeyPrefixTopicImages 话题图片在 COS 中的对象键前缀
	COSObjectKeyPrefixTopicImages = "topics/images/"

	// TopicCreateScoreReward 发布话题的积分奖励
	TopicCreateScoreReward = 5
)
