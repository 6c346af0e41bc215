package vo

// ToggleLikeVO 定义了点赞/取消点赞接口的响应数据结构。
// - Success 为 false 表示遇到软冲突（如并发下取消点赞时关系已被删除），HTTP 状态码仍为 200。
type ToggleLikeVO struct {
	Success bool `json:"success"` // 本次操作是否生效
	Liked   bool `json:"liked"`   // 操作后的点赞状态
}

// ClaimImageVO 定义了收图（将图片收入画板）接口的响应数据结构。
// - 重复收入同一画板时 Success 为 false，不产生任何计数变更。
type ClaimImageVO struct {
	Success bool   `json:"success"`  // 本次收图是否生效
	TopicID uint64 `json:"topic_id"` // 图片话题ID
}

// SimilarImagesVO 定义了相似图片查询接口的响应数据结构。
type SimilarImagesVO struct {
	Topics []*TopicResponse `json:"topics"` // 相似图片话题列表，按ID降序
}
