package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// TopicLikeRepository 喜欢关系的持久化操作接口。
// - 关系表是"已喜欢"的事实来源，Topic/User 上的计数只是它的冗余投影。
type TopicLikeRepository interface {
	// GetTopicLike 查询指定用户对指定话题的喜欢关系。
	// - 不存在时返回 (nil, nil)，交由业务层走"喜欢"分支。
	GetTopicLike(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error)

	// CreateTopicLike 新建喜欢关系。
	// - (user_id, topic_id) 有联合唯一索引，并发重复插入由索引兜底。
	CreateTopicLike(ctx context.Context, userID string, topicID uint64) error

	// DeleteTopicLike 删除喜欢关系，返回实际删除的行数。
	// - removed 为 0 说明关系已被并发请求先行移除，调用方应按软失败处理。
	DeleteTopicLike(ctx context.Context, userID string, topicID uint64) (removed int64, err error)

	// ListTopicLikesByUserAndTopicIDs 查询用户对一批话题的喜欢关系。
	// - 列表页标记 liked 用，只回关系行，不做计数。
	ListTopicLikesByUserAndTopicIDs(ctx context.Context, userID string, topicIDs []uint64) ([]*entities.TopicLike, error)
}

type topicLikeRepository struct {
	db *gorm.DB
}

// NewTopicLikeRepository 创建 TopicLikeRepository 实例
func NewTopicLikeRepository(db *gorm.DB) TopicLikeRepository {
	return &topicLikeRepository{db: db}
}

func (r *topicLikeRepository) GetTopicLike(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
	var like entities.TopicLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *topicLikeRepository) CreateTopicLike(ctx context.Context, userID string, topicID uint64) error {
	like := entities.TopicLike{UserID: userID, TopicID: topicID}
	return r.db.WithContext(ctx).Create(&like).Error
}

func (r *topicLikeRepository) DeleteTopicLike(ctx context.Context, userID string, topicID uint64) (int64, error) {
	// 物理删除关系行；"是否删到了东西"是业务语义的一部分，必须把行数带回去
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Delete(&entities.TopicLike{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *topicLikeRepository) ListTopicLikesByUserAndTopicIDs(ctx context.Context, userID string, topicIDs []uint64) ([]*entities.TopicLike, error) {
	if len(topicIDs) == 0 {
		return []*entities.TopicLike{}, nil
	}
	var likes []*entities.TopicLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
