package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// User 用户实体
// - 使用场景: 仅作为各业务流程的计数宿主被动更新（喜欢图片、Get 图片、发帖加分），
//   从不作为流程的主查询对象；用户资料本体由用户服务维护
// - 表名: users
type User struct {
	entities.BaseModel

	// 用户ID，UUID 格式，与网关透传的 UserID 一致
	UserID string `gorm:"type:char(36);not null;uniqueIndex"`

	// 用户名，冗余字段，来源于用户服务
	Username string `gorm:"type:varchar(50);not null"`

	// 头像 URL，冗余字段，来源于用户服务
	Avatar string `gorm:"type:varchar(255);not null"`

	// 喜欢过的图片数，冗余计数字段
	// - 与 topic_likes 关系表独立写入，不做事务捆绑，允许漂移
	LikeImageCount int64 `gorm:"type:bigint;not null;default:0"`

	// Get 过的图片数，冗余计数字段，语义同上
	GetImageCount int64 `gorm:"type:bigint;not null;default:0"`

	// 积分，发帖等行为累加
	Score int64 `gorm:"type:bigint;not null;default:0"`

	// 发帖数，冗余计数字段
	TopicCount int64 `gorm:"type:bigint;not null;default:0"`
}
