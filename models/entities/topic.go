package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// TopicType 话题类型，text=文字话题, image=图片话题
// - 图片话题额外携带图片 URL 与感知指纹 (ImageHash)，用于相似图片检索
type TopicType string

const (
	TopicTypeText  TopicType = "text"
	TopicTypeImage TopicType = "image"
)

// Topic 话题实体
// - 使用场景: 话题列表页、话题详情页、图片相似检索
// - 表名: topics (GORM 默认使用结构体名复数形式)
type Topic struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 标题，必填，最大长度255个字符
	// - GORM 标签: type:varchar(255) 指定数据库类型，not null 表示非空
	Title string `gorm:"type:varchar(255);not null"`

	// 正文内容，文字话题必填
	Content string `gorm:"type:text"`

	// 所属版块，例如 share / ask / job
	// - 类型: varchar(50)，版块标识为短字符串
	Forum string `gorm:"type:varchar(50);not null;index"`

	// 话题类型，text 或 image
	// - GORM 标签: default:'text'，与列表查询的默认筛选保持一致
	Type TopicType `gorm:"type:varchar(10);not null;default:'text';index"`

	// 作者ID，关联用户表
	// - 类型: char(36)，用户ID为UUID格式（36个字符）
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 作者头像，存储作者头像的URL
	// - 注意:
	//   - 该字段为冗余字段，数据来源于用户服务，更新时通过异步消息队列同步
	//   - 用户注册时会有默认头像，因此字段不可为空
	AuthorAvatar string `gorm:"type:varchar(255);not null"`

	// 作者用户名
	// - 注意: 该字段为冗余字段，数据来源于用户服务，更新时通过异步消息队列同步
	AuthorUsername string `gorm:"type:varchar(50);not null"`

	// 精华标记，版块筛选 forum=good 时按此字段过滤
	Good bool `gorm:"type:tinyint(1);not null;default:0"`

	// 置顶标记
	Top bool `gorm:"type:tinyint(1);not null;default:0"`

	// 喜欢数，冗余计数字段
	// - 该计数与 topic_likes 关系表各自独立写入，不在同一事务内，
	//   并发或部分失败下可能与真实关系数产生漂移，由后台任务兜底核对
	LikeCount int64 `gorm:"type:bigint;not null;default:0"`

	// 被 Get（认领进 Board）数，冗余计数字段，漂移语义同 LikeCount
	GetedCount int64 `gorm:"type:bigint;not null;default:0"`

	// 回复数，冗余计数字段
	ReplyCount int64 `gorm:"type:bigint;not null;default:0"`

	// 浏览量，由 Redis 计数后定时批量回写，数据库中为准实时值
	VisitCount int64 `gorm:"type:bigint;not null;default:0"`

	// 图片 URL，仅图片话题有值
	ImageURL sql.NullString `gorm:"type:varchar(255)"`

	// 图片感知指纹，仅图片话题有值
	// - 定宽十六进制串（64位指纹对应16个字符），视觉相近的图片指纹的汉明距离小
	// - 相似检索按该字段在进程内做距离过滤
	ImageHash sql.NullString `gorm:"type:char(16);index"`
}
