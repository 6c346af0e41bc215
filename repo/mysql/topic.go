package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// TopicRepository 定义了话题数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type TopicRepository interface {
	// CreateTopic 持久化一个新的话题记录。
	// - 这是话题生命周期的起点，对应用户发布话题的操作。
	CreateTopic(ctx context.Context, topic *entities.Topic) error

	// GetTopicByID 根据单个 ID 检索话题信息。
	// - 如果未找到话题（含已软删除），返回 commonerrors.ErrRepoNotFound 错误。
	GetTopicByID(ctx context.Context, id uint64) (*entities.Topic, error)

	// SaveTopic 保存话题的可编辑字段 (Title, Content, Forum)。
	// - 用于作者/管理员编辑话题，总是刷新 updated_at。
	SaveTopic(ctx context.Context, topic *entities.Topic) error

	// ListTopics 按类型与版块分页查询话题列表。
	// - forum 为空或 "all" 时不按版块过滤；"good" 表示精华筛选。
	// - 排序: 置顶优先，再按 ID 降序（新帖在前）。
	ListTopics(ctx context.Context, topicType entities.TopicType, forum string, offset, limit int) ([]*entities.Topic, error)

	// ListImageTopicsBefore 按 ID 降序检索 sinceID 之前的图片话题候选批。
	// - 为相似检索提供粗筛数据源：只做类型/游标过滤，距离过滤在进程内完成。
	ListImageTopicsBefore(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error)

	// IncrLikeCount 话题喜欢数原子增减 (delta 可为负)。
	// - 单条 UPDATE 自增，不与喜欢关系表的写入捆绑事务；
	//   两者各自提交，部分失败下允许计数漂移。
	IncrLikeCount(ctx context.Context, topicID uint64, delta int64) error

	// IncrGetedCount 话题被 Get 数原子增减，语义同 IncrLikeCount。
	IncrGetedCount(ctx context.Context, topicID uint64, delta int64) error

	// UpdateAuthorInfo 按作者 ID 批量回写冗余的作者用户名/头像。
	// - 由用户资料变更事件的消费者调用。
	UpdateAuthorInfo(ctx context.Context, authorID string, username, avatar string) error
}

// topicRepository 是 TopicRepository 接口针对 MySQL 的具体实现。
type topicRepository struct {
	db     *gorm.DB        // GORM 数据库实例
	logger *core.ZapLogger // 日志记录器实例
}

// NewTopicRepository 是 topicRepository 的构造函数。
func NewTopicRepository(db *gorm.DB, logger *core.ZapLogger) TopicRepository {
	return &topicRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTopic 实现话题的数据库插入操作。
func (r *topicRepository) CreateTopic(ctx context.Context, topic *entities.Topic) error {
	// GORM 会自动填充 BaseModel 中的 ID 与时间戳。
	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		// 仓库层直接返回数据库错误，由服务层决定如何处理或包装。
		return err
	}
	return nil
}

// GetTopicByID 实现根据单个 ID 获取话题。
func (r *topicRepository) GetTopicByID(ctx context.Context, id uint64) (*entities.Topic, error) {
	var topic entities.Topic

	// First 会自动添加 "WHERE id = ?"、"LIMIT 1" 以及软删除过滤条件。
	err := r.db.WithContext(ctx).First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取话题未找到", zap.Uint64("topicID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取话题数据库查询失败", zap.Uint64("topicID", id), zap.Error(err))
		return nil, err
	}

	return &topic, nil
}

// SaveTopic 实现话题可编辑字段的更新。
func (r *topicRepository) SaveTopic(ctx context.Context, topic *entities.Topic) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Topic{}).
		Where("id = ?", topic.ID).
		Updates(map[string]interface{}{
			"title":      topic.Title,
			"content":    topic.Content,
			"forum":      topic.Forum,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("更新话题数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("topicID", topic.ID),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新话题但未找到记录或记录已被删除", zap.Uint64("topicID", topic.ID))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListTopics 实现话题列表的分页查询。
func (r *topicRepository) ListTopics(ctx context.Context, topicType entities.TopicType, forum string, offset, limit int) ([]*entities.Topic, error) {
	var topics []*entities.Topic

	query := r.db.WithContext(ctx).
		Model(&entities.Topic{}).
		Where("type = ?", topicType)

	// 版块筛选: "good" 过滤精华帖，"all"/空 不加版块条件
	switch forum {
	case "", "all":
	case "good":
		query = query.Where("good = ?", true)
	default:
		query = query.Where("forum = ?", forum)
	}

	err := query.
		Order("top DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		r.logger.Error("话题列表查询失败",
			zap.Error(err),
			zap.String("type", string(topicType)),
			zap.String("forum", forum),
		)
		return nil, err
	}

	return topics, nil
}

// ListImageTopicsBefore 实现相似检索的候选粗筛查询。
func (r *topicRepository) ListImageTopicsBefore(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
	var topics []*entities.Topic

	// 只取带指纹的图片话题；游标严格小于，保证分页单调且不含参考图自身
	err := r.db.WithContext(ctx).
		Where("type = ?", entities.TopicTypeImage).
		Where("id < ?", sinceID).
		Where("image_hash IS NOT NULL").
		Order("id DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		r.logger.Error("相似检索候选查询失败",
			zap.Error(err),
			zap.Uint64("sinceID", sinceID),
			zap.Int("limit", limit),
		)
		return nil, err
	}

	return topics, nil
}

// incrCounter 单字段原子自增的公共实现。
// 使用 gorm.Expr 生成 "SET col = col + ?"，避免读-改-写竞态。
func (r *topicRepository) incrCounter(ctx context.Context, topicID uint64, column string, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Topic{}).
		Where("id = ?", topicID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))

	if result.Error != nil {
		r.logger.Error("话题计数更新失败",
			zap.Error(result.Error),
			zap.Uint64("topicID", topicID),
			zap.String("column", column),
			zap.Int64("delta", delta),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 话题可能已被软删除，计数丢失可被后台核对任务追平，这里只告警
		r.logger.Warn("话题计数更新未命中任何记录",
			zap.Uint64("topicID", topicID),
			zap.String("column", column),
		)
	}
	return nil
}

func (r *topicRepository) IncrLikeCount(ctx context.Context, topicID uint64, delta int64) error {
	return r.incrCounter(ctx, topicID, "like_count", delta)
}

func (r *topicRepository) IncrGetedCount(ctx context.Context, topicID uint64, delta int64) error {
	return r.incrCounter(ctx, topicID, "geted_count", delta)
}

// UpdateAuthorInfo 实现冗余作者字段的批量回写。
func (r *topicRepository) UpdateAuthorInfo(ctx context.Context, authorID string, username, avatar string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Topic{}).
		Where("author_id = ?", authorID).
		Updates(map[string]interface{}{
			"author_username": username,
			"author_avatar":   avatar,
		})
	if result.Error != nil {
		r.logger.Error("回写冗余作者信息失败",
			zap.Error(result.Error),
			zap.String("authorID", authorID),
		)
		return result.Error
	}
	r.logger.Info("冗余作者信息回写完成",
		zap.String("authorID", authorID),
		zap.Int64("rows", result.RowsAffected),
	)
	return nil
}
