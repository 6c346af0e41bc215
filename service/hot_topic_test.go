package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/myErrors"
)

type mockTopicCache struct {
	getTopicRankFn     func(ctx context.Context, topicID uint64) (int64, error)
	getTopicsByRangeFn func(ctx context.Context, start, stop int64) ([]uint64, error)
	getTopicsFn        func(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error)
}

func (m *mockTopicCache) GetTopicRank(ctx context.Context, topicID uint64) (int64, error) {
	if m.getTopicRankFn != nil {
		return m.getTopicRankFn(ctx, topicID)
	}
	return -1, nil
}

func (m *mockTopicCache) GetTopicsByRange(ctx context.Context, start, stop int64) ([]uint64, error) {
	if m.getTopicsByRangeFn != nil {
		return m.getTopicsByRangeFn(ctx, start, stop)
	}
	return []uint64{}, nil
}

func (m *mockTopicCache) GetTopics(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error) {
	if m.getTopicsFn != nil {
		return m.getTopicsFn(ctx, topicIDs)
	}
	return []*entities.Topic{}, nil
}

func TestGetHotTopicsByCursor_FirstPage(t *testing.T) {
	var capturedStart, capturedStop int64
	cache := &mockTopicCache{
		getTopicsByRangeFn: func(ctx context.Context, start, stop int64) ([]uint64, error) {
			capturedStart, capturedStop = start, stop
			return []uint64{30, 20, 10}, nil
		},
		getTopicsFn: func(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error) {
			topics := make([]*entities.Topic, 0, len(topicIDs))
			for _, id := range topicIDs {
				topics = append(topics, makeTopic(id))
			}
			return topics, nil
		},
	}
	svc := NewHotTopicService(cache, newTestLogger(t))

	topics, nextCursor, err := svc.GetHotTopicsByCursor(context.Background(), nil, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(0), capturedStart)
	assert.Equal(t, int64(2), capturedStop)
	assert.Len(t, topics, 3)
	require.NotNil(t, nextCursor)
	assert.Equal(t, uint64(10), *nextCursor)
}

func TestGetHotTopicsByCursor_SecondPageFromRank(t *testing.T) {
	var capturedStart int64
	cache := &mockTopicCache{
		getTopicRankFn: func(ctx context.Context, topicID uint64) (int64, error) {
			return 2, nil // 上一页最后一条排第 3 名
		},
		getTopicsByRangeFn: func(ctx context.Context, start, stop int64) ([]uint64, error) {
			capturedStart = start
			return []uint64{5}, nil
		},
		getTopicsFn: func(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error) {
			return []*entities.Topic{makeTopic(5)}, nil
		},
	}
	svc := NewHotTopicService(cache, newTestLogger(t))

	last := uint64(10)
	topics, nextCursor, err := svc.GetHotTopicsByCursor(context.Background(), &last, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), capturedStart)
	assert.Len(t, topics, 1)
	// 返回数量不足 limit，已到末尾
	assert.Nil(t, nextCursor)
}

func TestGetHotTopicsByCursor_StaleCursor(t *testing.T) {
	cache := &mockTopicCache{
		getTopicRankFn: func(ctx context.Context, topicID uint64) (int64, error) {
			return -1, nil // 游标话题已被挤出榜单
		},
	}
	svc := NewHotTopicService(cache, newTestLogger(t))

	last := uint64(99)
	_, _, err := svc.GetHotTopicsByCursor(context.Background(), &last, 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)
}

func TestGetHotTopicsByCursor_InvalidLimit(t *testing.T) {
	svc := NewHotTopicService(&mockTopicCache{}, newTestLogger(t))

	_, _, err := svc.GetHotTopicsByCursor(context.Background(), nil, 0)

	assert.Error(t, err)
}

func TestGetHotTopicsByCursor_EmptyRangeEndsPaging(t *testing.T) {
	svc := NewHotTopicService(&mockTopicCache{}, newTestLogger(t))

	topics, nextCursor, err := svc.GetHotTopicsByCursor(context.Background(), nil, 3)

	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.Nil(t, nextCursor)
}
