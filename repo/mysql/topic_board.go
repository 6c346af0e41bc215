package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// TopicBoardRepository 认领（Get）记录的持久化操作接口。
type TopicBoardRepository interface {
	// GetTopicBoard 查询指定用户对指定话题的认领记录。
	// - 不存在时返回 (nil, nil)，交由业务层走"新建认领"分支。
	GetTopicBoard(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error)

	// CreateTopicBoard 新建认领记录。
	// - (user_id, topic_id) 有联合唯一索引，同一话题重复认领由业务层先查后判，
	//   索引兜底并发窗口内的重复插入。
	CreateTopicBoard(ctx context.Context, board *entities.TopicBoard) error

	// UpdateTopicBoard 在既有记录上覆盖 board_id 与 desc（换 Board 场景）。
	UpdateTopicBoard(ctx context.Context, id uint64, boardID string, desc sql.NullString) error
}

type topicBoardRepository struct {
	db *gorm.DB
}

// NewTopicBoardRepository 创建 TopicBoardRepository 实例
func NewTopicBoardRepository(db *gorm.DB) TopicBoardRepository {
	return &topicBoardRepository{db: db}
}

func (r *topicBoardRepository) GetTopicBoard(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
	var board entities.TopicBoard
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *topicBoardRepository) CreateTopicBoard(ctx context.Context, board *entities.TopicBoard) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *topicBoardRepository) UpdateTopicBoard(ctx context.Context, id uint64, boardID string, desc sql.NullString) error {
	return r.db.WithContext(ctx).
		Model(&entities.TopicBoard{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"board_id": boardID,
			"desc":     desc,
		}).Error
}
