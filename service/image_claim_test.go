package service

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/entities"
)

func TestClaimImage_FirstClaim(t *testing.T) {
	var recordCreated, userDelta, topicDelta atomic.Int64
	var capturedBoard *entities.TopicBoard

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrGetedCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			topicDelta.Add(delta)
			return nil
		},
	}
	boardRepo := &mockBoardRepo{
		GetTopicBoardFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
			return nil, nil // 尚无认领记录
		},
		CreateTopicBoardFn: func(ctx context.Context, board *entities.TopicBoard) error {
			capturedBoard = board
			recordCreated.Add(1)
			return nil
		},
	}
	userRepo := &mockUserRepo{
		IncrGetImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			userDelta.Add(delta)
			return nil
		},
	}

	svc := NewClaimService(topicRepo, boardRepo, userRepo, newTestLogger(t))
	result, err := svc.ClaimImage(context.Background(), "user-1", &dto.ClaimImageRequest{
		TopicID: 42,
		BoardID: "board-a",
		Desc:    "收藏一下",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, uint64(42), result.TopicID)

	// 首次认领的三笔写入全部完成后才响应
	assert.Equal(t, int64(1), recordCreated.Load())
	assert.Equal(t, int64(1), userDelta.Load())
	assert.Equal(t, int64(1), topicDelta.Load())

	require.NotNil(t, capturedBoard)
	assert.Equal(t, "user-1", capturedBoard.UserID)
	assert.Equal(t, uint64(42), capturedBoard.TopicID)
	assert.Equal(t, "board-a", capturedBoard.BoardID)
	assert.True(t, capturedBoard.Desc.Valid)
	assert.Equal(t, "收藏一下", capturedBoard.Desc.String)
}

func TestClaimImage_SameBoardRejected(t *testing.T) {
	var writes atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrGetedCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			writes.Add(1)
			return nil
		},
	}
	boardRepo := &mockBoardRepo{
		GetTopicBoardFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
			return &entities.TopicBoard{
				BaseModel: commonentities.BaseModel{ID: 7},
				UserID:    userID,
				TopicID:   topicID,
				BoardID:   "board-a",
			}, nil
		},
		CreateTopicBoardFn: func(ctx context.Context, board *entities.TopicBoard) error {
			writes.Add(1)
			return nil
		},
		UpdateTopicBoardFn: func(ctx context.Context, id uint64, boardID string, desc sql.NullString) error {
			writes.Add(1)
			return nil
		},
	}
	userRepo := &mockUserRepo{
		IncrGetImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			writes.Add(1)
			return nil
		},
	}

	svc := NewClaimService(topicRepo, boardRepo, userRepo, newTestLogger(t))
	// desc 不同但 board 相同，仍按软冲突处理
	result, err := svc.ClaimImage(context.Background(), "user-1", &dto.ClaimImageRequest{
		TopicID: 42,
		BoardID: "board-a",
		Desc:    "换了个描述",
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, uint64(42), result.TopicID)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), writes.Load(), "同 Board 重复认领不产生任何写入")
}

func TestClaimImage_MoveToAnotherBoard(t *testing.T) {
	var updatedID uint64
	var updatedBoardID string
	var updatedDesc sql.NullString
	var counterCalls atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrGetedCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			counterCalls.Add(1)
			return nil
		},
	}
	boardRepo := &mockBoardRepo{
		GetTopicBoardFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
			return &entities.TopicBoard{
				BaseModel: commonentities.BaseModel{ID: 7},
				UserID:    userID,
				TopicID:   topicID,
				BoardID:   "board-a",
			}, nil
		},
		UpdateTopicBoardFn: func(ctx context.Context, id uint64, boardID string, desc sql.NullString) error {
			updatedID = id
			updatedBoardID = boardID
			updatedDesc = desc
			return nil
		},
	}
	userRepo := &mockUserRepo{
		IncrGetImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			counterCalls.Add(1)
			return nil
		},
	}

	svc := NewClaimService(topicRepo, boardRepo, userRepo, newTestLogger(t))
	result, err := svc.ClaimImage(context.Background(), "user-1", &dto.ClaimImageRequest{
		TopicID: 42,
		BoardID: "board-b",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, uint64(7), updatedID, "应在原记录上覆盖")
	assert.Equal(t, "board-b", updatedBoardID)
	assert.False(t, updatedDesc.Valid, "未携带 desc 时写入 NULL")

	// 换 Board 只改记录，不动计数
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), counterCalls.Load())
}

func TestClaimImage_RecordCreateFailsSiblingsCommitted(t *testing.T) {
	saveErr := errors.New("插入认领记录失败")
	var userDelta, topicDelta atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrGetedCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			topicDelta.Add(delta)
			return nil
		},
	}
	boardRepo := &mockBoardRepo{
		GetTopicBoardFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
			return nil, nil
		},
		CreateTopicBoardFn: func(ctx context.Context, board *entities.TopicBoard) error {
			return saveErr
		},
	}
	userRepo := &mockUserRepo{
		IncrGetImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			userDelta.Add(delta)
			return nil
		},
	}

	svc := NewClaimService(topicRepo, boardRepo, userRepo, newTestLogger(t))
	result, err := svc.ClaimImage(context.Background(), "user-1", &dto.ClaimImageRequest{
		TopicID: 42,
		BoardID: "board-a",
	})

	require.ErrorIs(t, err, saveErr)
	assert.Nil(t, result)

	// 三笔写入独立提交：记录创建失败不回滚兄弟计数
	waitFor(t, func() bool { return userDelta.Load() == 1 && topicDelta.Load() == 1 })
}

func TestClaimImage_TopicNotFound(t *testing.T) {
	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewClaimService(topicRepo, &mockBoardRepo{}, &mockUserRepo{}, newTestLogger(t))
	result, err := svc.ClaimImage(context.Background(), "user-1", &dto.ClaimImageRequest{
		TopicID: 404,
		BoardID: "board-a",
	})

	require.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	assert.Nil(t, result)
}
