package vo

import (
	"time"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// TopicResponse 定义了话题基础信息的响应数据结构
type TopicResponse struct {
	ID             uint64             `json:"id"`              // 话题ID
	Title          string             `json:"title"`           // 话题标题
	Forum          string             `json:"forum"`           // 所属板块
	Type           entities.TopicType `json:"type"`            // 话题类型，text 或 image
	Good           bool               `json:"good"`            // 是否精华
	Top            bool               `json:"top"`             // 是否置顶
	AuthorID       string             `json:"author_id"`       // 作者ID
	AuthorAvatar   string             `json:"author_avatar"`   // 作者头像
	AuthorUsername string             `json:"author_username"` // 作者用户名
	LikeCount      int64              `json:"like_count"`      // 点赞数
	GetedCount     int64              `json:"geted_count"`     // 被收入画板次数
	ReplyCount     int64              `json:"reply_count"`     // 回复数
	VisitCount     int64              `json:"visit_count"`     // 浏览量
	ImageURL       string             `json:"image_url"`       // 图片URL，文本话题为空
	Liked          bool               `json:"liked"`           // 当前用户是否已点赞
	CreatedAt      time.Time          `json:"created_at"`      // 创建时间
	UpdatedAt      time.Time          `json:"updated_at"`      // 更新时间
}

// TopicListPageVO 定义了话题列表页的响应结构。
// - 包含当前页的话题列表和分页信息。
type TopicListPageVO struct {
	Topics   []*TopicResponse `json:"topics"`    // 当前页的话题摘要列表
	Page     int              `json:"page"`      // 当前页码，从 1 开始
	PageSize int              `json:"page_size"` // 每页数量
}

// ListHotTopicsByCursorResponse 查看热门话题列表游标加载
type ListHotTopicsByCursorResponse struct {
	Topics     []*TopicResponse `json:"topics"`      // 话题列表
	NextCursor *uint64          `json:"next_cursor"` // 下一个游标，nil 表示无更多数据
}

// TopicDetailVO 定义了话题详情页的完整视图对象。
// - 在 TopicResponse 基础上补充了正文内容和收藏状态。
type TopicDetailVO struct {
	TopicResponse
	Content   string `json:"content"`    // 话题正文
	IsCollect bool   `json:"is_collect"` // 当前用户是否已将该图片收入画板
}

// NewTopicResponseFromEntity 将单个 Topic 实体转换为 TopicResponse。
func NewTopicResponseFromEntity(topic *entities.Topic) *TopicResponse {
	if topic == nil {
		return nil
	}
	resp := &TopicResponse{
		ID:             topic.ID,
		Title:          topic.Title,
		Forum:          topic.Forum,
		Type:           topic.Type,
		Good:           topic.Good,
		Top:            topic.Top,
		AuthorID:       topic.AuthorID,
		AuthorAvatar:   topic.AuthorAvatar,
		AuthorUsername: topic.AuthorUsername,
		LikeCount:      topic.LikeCount,
		GetedCount:     topic.GetedCount,
		ReplyCount:     topic.ReplyCount,
		VisitCount:     topic.VisitCount,
		CreatedAt:      topic.CreatedAt,
		UpdatedAt:      topic.UpdatedAt,
	}
	if topic.ImageURL.Valid {
		resp.ImageURL = topic.ImageURL.String
	}
	return resp
}

// MapTopicsToTopicResponsesVO 是一个辅助函数，用于将话题实体列表转换为话题响应VO列表。
// likedTopicIDs 为当前用户已点赞的话题ID集合，匿名用户传 nil。
func MapTopicsToTopicResponsesVO(topics []*entities.Topic, likedTopicIDs map[uint64]bool) []*TopicResponse {
	if len(topics) == 0 {
		return []*TopicResponse{} // 返回空切片而不是nil，便于前端处理
	}

	responses := make([]*TopicResponse, 0, len(topics))
	for _, topic := range topics {
		if topic == nil { // 安全检查，尽管不太可能发生
			continue
		}
		resp := NewTopicResponseFromEntity(topic)
		if likedTopicIDs != nil {
			resp.Liked = likedTopicIDs[topic.ID]
		}
		responses = append(responses, resp)
	}
	return responses
}
