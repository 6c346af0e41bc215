package events

import "time"

// TopicData 是话题事件中携带的核心数据。
// - 只包含下游服务需要的字段，不直接复用 entities.Topic，避免事件结构跟随表结构漂移。
type TopicData struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Forum          string    `json:"forum"`
	Type           string    `json:"type"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TopicCreatedEvent 话题创建事件，发布到 TopicCreated 主题供搜索/推荐等下游消费。
type TopicCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Topic     TopicData `json:"topic"`
}

// MentionNotifyEvent @提及通知事件，发布到 MentionNotify 主题供通知服务消费。
// - 通知服务负责从 Content 中解析被 @ 的用户名并投递站内信。
type MentionNotifyEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	TopicID   uint64    `json:"topic_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
}

// UserProfileUpdatedEvent 用户资料变更事件，由用户服务发布，本服务消费后
// 同步冗余的作者快照字段（用户名、头像）。
type UserProfileUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
}
