package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// TopicResponseWrapper 对应 response.APIResponse[vo.TopicResponse]
type TopicResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    TopicResponse `json:"data"` // 使用具体的 vo.TopicResponse
}

// TopicDetailResponseWrapper 对应 response.APIResponse[vo.TopicDetailVO]
type TopicDetailResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    TopicDetailVO `json:"data"`
}

// TopicListPageResponseWrapper 对应 response.APIResponse[vo.TopicListPageVO]
// 用于话题列表接口的成功响应。
type TopicListPageResponseWrapper struct {
	Code    int             `json:"code" example:"0"`                    // 响应码，0 表示成功
	Message string          `json:"message,omitempty" example:"success"` // 响应消息
	Data    TopicListPageVO `json:"data"`                                // 实际的话题列表分页数据
}

// ListHotTopicsByCursorResponseWrapper 对应 response.APIResponse[vo.ListHotTopicsByCursorResponse]
type ListHotTopicsByCursorResponseWrapper struct {
	Code    int                           `json:"code" example:"0"`
	Message string                        `json:"message,omitempty" example:"success"`
	Data    ListHotTopicsByCursorResponse `json:"data"`
}

// ToggleLikeResponseWrapper 对应 response.APIResponse[vo.ToggleLikeVO]
type ToggleLikeResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    ToggleLikeVO `json:"data"`
}

// ClaimImageResponseWrapper 对应 response.APIResponse[vo.ClaimImageVO]
type ClaimImageResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    ClaimImageVO `json:"data"`
}

// SimilarImagesResponseWrapper 对应 response.APIResponse[vo.SimilarImagesVO]
type SimilarImagesResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    SimilarImagesVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作（如 DELETE）可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
	// 注意：这里没有 Data 字段，因为错误时它是 nil 且被 omitempty 省略了
}
