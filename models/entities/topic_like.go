package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// TopicLike 喜欢关系实体
// - 语义: 记录存在即"已喜欢"，不存在即"未喜欢"，没有状态位
// - 约束: (user_id, topic_id) 联合唯一，一个用户对一个话题至多一条关系
// - 表名: topic_likes
type TopicLike struct {
	entities.BaseModel

	// 用户ID
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_user_topic"`

	// 话题ID
	TopicID uint64 `gorm:"type:bigint unsigned;not null;uniqueIndex:uk_user_topic;index"`
}
