package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// TopicBoard 认领（Get）记录实体
// - 语义: 用户把某张图片话题 Get 进自己的一个 Board
// - 约束: (user_id, topic_id) 联合唯一；换 Board 再次 Get 时在原记录上
//   覆盖 board_id/desc，而不是新增一条；Get 进同一个 Board 会被业务层拒绝
// - 表名: topic_boards
type TopicBoard struct {
	entities.BaseModel

	// 用户ID
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_user_topic"`

	// 话题ID
	TopicID uint64 `gorm:"type:bigint unsigned;not null;uniqueIndex:uk_user_topic;index"`

	// 目标 Board 的ID
	BoardID string `gorm:"type:char(36);not null;index"`

	// 描述，可选
	Desc sql.NullString `gorm:"type:varchar(255)"`
}
