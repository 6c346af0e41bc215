package dto

// LikeImageRequest 定义了对图片话题点赞/取消点赞的请求数据结构
// - 同一接口承担两种语义：已点赞则取消，未点赞则点赞。
type LikeImageRequest struct {
	TopicID uint64 `json:"topic_id" binding:"required,gte=1" example:"123"` // 图片话题ID，必填
}

// ClaimImageRequest 定义了将图片收入画板（"获取"图片）的请求数据结构
type ClaimImageRequest struct {
	TopicID uint64 `json:"topic_id" binding:"required,gte=1" example:"123"`                                  // 图片话题ID，必填
	BoardID string `json:"board_id" binding:"required,max=36" example:"3f2c9e54-0b1a-4c3d-9e61-7a8f2d5b4c10"` // 目标画板ID，必填
	Desc    string `json:"desc" binding:"omitempty,max=255"`                                                 // 收藏描述，可选
}

// ListSimilarImagesRequest 封装了相似图片查询在 Service 层使用的参数。
// - 控制器层不使用 binding 绑定该结构，`id` 与 `sid` 缺失时按约定返回 500 级错误，
//   因此由控制器手工解析后填充。
type ListSimilarImagesRequest struct {
	TopicID  uint64 // 参照图片话题ID
	CursorID uint64 // 游标，仅返回 id 严格小于该值的候选
	Limit    int    // 期望返回条数，Service 层负责钳制到 [1, 10]，缺省 3
}
