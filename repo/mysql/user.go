package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// UserRepository 定义了用户计数字段在 MySQL 中的持久化操作接口。
// - 用户资料本体由用户服务维护，本服务只把 users 表当作各业务流程的计数宿主。
// - 所有自增操作都是单条 UPDATE 独立提交，不与触发它们的关系写入共享事务。
type UserRepository interface {
	// GetUserByUserID 根据 UserID (UUID) 检索用户。
	// - 未找到返回 commonerrors.ErrRepoNotFound。
	GetUserByUserID(ctx context.Context, userID string) (*entities.User, error)

	// IncrLikeImageCount 喜欢图片数原子增减 (delta 可为负)。
	IncrLikeImageCount(ctx context.Context, userID string, delta int64) error

	// IncrGetImageCount Get 图片数原子增减。
	IncrGetImageCount(ctx context.Context, userID string, delta int64) error

	// AddTopicScore 发帖奖励：score 与 topic_count 同一条 UPDATE 内累加。
	AddTopicScore(ctx context.Context, userID string, score int64) error

	// UpsertProfile 依据用户资料事件创建或更新用户行。
	// - 由用户资料变更事件的消费者调用。
	UpsertProfile(ctx context.Context, userID, username, avatar string) error
}

type userRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewUserRepository 是 userRepository 的构造函数。
func NewUserRepository(db *gorm.DB, logger *core.ZapLogger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

// GetUserByUserID 根据 UserID 获取用户。
func (r *userRepository) GetUserByUserID(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 UserID 获取用户未找到", zap.String("userID", userID))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 UserID 获取用户失败", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// incrCounter 用户计数字段原子自增的公共实现。
func (r *userRepository) incrCounter(ctx context.Context, userID string, column string, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))

	if result.Error != nil {
		r.logger.Error("用户计数更新失败",
			zap.Error(result.Error),
			zap.String("userID", userID),
			zap.String("column", column),
			zap.Int64("delta", delta),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("用户计数更新未命中任何记录",
			zap.String("userID", userID),
			zap.String("column", column),
		)
	}
	return nil
}

func (r *userRepository) IncrLikeImageCount(ctx context.Context, userID string, delta int64) error {
	return r.incrCounter(ctx, userID, "like_image_count", delta)
}

func (r *userRepository) IncrGetImageCount(ctx context.Context, userID string, delta int64) error {
	return r.incrCounter(ctx, userID, "get_image_count", delta)
}

// AddTopicScore 发帖加分并累加发帖数。
func (r *userRepository) AddTopicScore(ctx context.Context, userID string, score int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"score":       gorm.Expr("score + ?", score),
			"topic_count": gorm.Expr("topic_count + ?", 1),
		})
	if result.Error != nil {
		r.logger.Error("发帖加分更新失败",
			zap.Error(result.Error),
			zap.String("userID", userID),
			zap.Int64("score", score),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("发帖加分未命中任何记录", zap.String("userID", userID))
	}
	return nil
}

// UpsertProfile 创建或更新用户的冗余资料字段。
func (r *userRepository) UpsertProfile(ctx context.Context, userID, username, avatar string) error {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = entities.User{UserID: userID, Username: username, Avatar: avatar}
		return r.db.WithContext(ctx).Create(&user).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"username": username,
			"avatar":   avatar,
		}).Error
}
