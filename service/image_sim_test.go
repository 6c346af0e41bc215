package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/entities"
)

func makeImageTopic(id uint64, hash string) *entities.Topic {
	topic := &entities.Topic{
		BaseModel: commonentities.BaseModel{ID: id},
		Type:      entities.TopicTypeImage,
	}
	if hash != "" {
		topic.ImageHash = sql.NullString{String: hash, Valid: true}
	}
	return topic
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, constant.SimDefaultLimit, clampLimit(0))
	assert.Equal(t, constant.SimDefaultLimit, clampLimit(-3))
	assert.Equal(t, 5, clampLimit(5))
	assert.Equal(t, constant.SimMaxLimit, clampLimit(15))
}

func TestListSimilar_ThresholdFiltering(t *testing.T) {
	refHash := "0000000000000000"

	// 候选按 id 降序排列，距离分别为 0 / 4 / 16 / 20 / 28
	candidates := []*entities.Topic{
		makeImageTopic(90, "0000000000000000"), // 距离 0，入选
		makeImageTopic(80, "000000000000000f"), // 距离 4，入选
		makeImageTopic(70, "000000000000ffff"), // 距离 16，入选
		makeImageTopic(60, "00000000000fffff"), // 距离 20，阈值为严格小于，排除
		makeImageTopic(50, "000000000fffffff"), // 距离 28，排除
	}

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeImageTopic(id, refHash), nil
		},
		ListImageTopicsBeforeFn: func(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
			if sinceID == 100 {
				return candidates, nil
			}
			return nil, nil
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  1,
		CursorID: 100,
		Limit:    10,
	})

	require.NoError(t, err)
	require.Len(t, result.Topics, 3)
	// 结果保持候选的 id 降序，不按相似度重排
	assert.Equal(t, uint64(90), result.Topics[0].ID)
	assert.Equal(t, uint64(80), result.Topics[1].ID)
	assert.Equal(t, uint64(70), result.Topics[2].ID)
}

func TestListSimilar_SkipsReferenceAndInvalidHashes(t *testing.T) {
	refHash := "0000000000000000"

	candidates := []*entities.Topic{
		makeImageTopic(42, refHash),             // 参照话题自身，排除
		makeImageTopic(30, "zzzzzzzzzzzzzzzz"),  // 指纹非法，跳过不报错
		makeImageTopic(20, ""),                  // 没有指纹，跳过
		makeImageTopic(10, "0000000000000001"),  // 距离 1，入选
	}

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeImageTopic(42, refHash), nil
		},
		ListImageTopicsBeforeFn: func(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
			if sinceID == 50 {
				return candidates, nil
			}
			return nil, nil
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  42,
		CursorID: 50,
	})

	require.NoError(t, err)
	require.Len(t, result.Topics, 1)
	assert.Equal(t, uint64(10), result.Topics[0].ID)
}

func TestListSimilar_LimitStopsScan(t *testing.T) {
	refHash := "0000000000000000"

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeImageTopic(id, refHash), nil
		},
		ListImageTopicsBeforeFn: func(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
			// 每个候选都命中，limit 钳制后默认取 3
			batch := make([]*entities.Topic, 0, limit)
			next := sinceID - 1
			for i := 0; i < limit; i++ {
				batch = append(batch, makeImageTopic(next, refHash))
				next--
			}
			return batch, nil
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  1,
		CursorID: 1000,
		Limit:    0, // 未指定，取默认
	})

	require.NoError(t, err)
	assert.Len(t, result.Topics, constant.SimDefaultLimit)
}

func TestListSimilar_MultiBatchCursorAdvance(t *testing.T) {
	refHash := "0000000000000000"
	farHash := "ffffffffffffffff" // 距离 64，永不入选

	var cursors []uint64
	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeImageTopic(id, refHash), nil
		},
		ListImageTopicsBeforeFn: func(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
			cursors = append(cursors, sinceID)
			switch sinceID {
			case 300:
				// 第一批全部不相似，迫使扫描进入下一批
				return []*entities.Topic{
					makeImageTopic(290, farHash),
					makeImageTopic(280, farHash),
				}, nil
			case 280:
				return []*entities.Topic{
					makeImageTopic(270, refHash),
				}, nil
			default:
				return nil, nil
			}
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  1,
		CursorID: 300,
		Limit:    1,
	})

	require.NoError(t, err)
	require.Len(t, result.Topics, 1)
	assert.Equal(t, uint64(270), result.Topics[0].ID)
	// 游标推进到上一批最后一条的 id
	assert.Equal(t, []uint64{300, 280}, cursors)
}

func TestListSimilar_ReferenceWithoutHash(t *testing.T) {
	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			topic := makeImageTopic(id, "")
			topic.Type = entities.TopicTypeText
			return topic, nil
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  1,
		CursorID: 100,
	})

	// 没有指纹的参照话题返回空结果而不是错误
	require.NoError(t, err)
	assert.Empty(t, result.Topics)
}

func TestListSimilar_ReferenceNotFound(t *testing.T) {
	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewSimilarService(topicRepo, newTestLogger(t))
	result, err := svc.ListSimilar(context.Background(), &dto.ListSimilarImagesRequest{
		TopicID:  404,
		CursorID: 100,
	})

	require.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	assert.Nil(t, result)
}
