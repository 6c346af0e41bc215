package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/vo"
)

// 图片互动三个服务的函数字段式替身

type stubLikeService struct {
	fn func(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error)
}

func (s *stubLikeService) ToggleLike(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error) {
	if s.fn != nil {
		return s.fn(ctx, userID, topicID)
	}
	return &vo.ToggleLikeVO{Success: true, Liked: true}, nil
}

type stubClaimService struct {
	fn func(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error)
}

func (s *stubClaimService) ClaimImage(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error) {
	if s.fn != nil {
		return s.fn(ctx, userID, req)
	}
	return &vo.ClaimImageVO{Success: true, TopicID: req.TopicID}, nil
}

type stubSimilarService struct {
	fn func(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error)
}

func (s *stubSimilarService) ListSimilar(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
	if s.fn != nil {
		return s.fn(ctx, req)
	}
	return &vo.SimilarImagesVO{Topics: []*vo.TopicResponse{}}, nil
}

// newImageRouter 组装只挂载图片互动路由的测试引擎。
// userID 非空时通过前置中间件模拟网关透传的用户上下文。
func newImageRouter(ctrl *ImageController, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(string(constants.UserIDKey), userID)
			c.Next()
		})
	}
	ctrl.RegisterRoutes(router.Group("/api/v1/topic"))
	return router
}

func TestListSimilarImages_MissingParamsIs500(t *testing.T) {
	var serviceCalled bool
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{
		fn: func(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
			serviceCalled = true
			return nil, nil
		},
	})
	router := newImageRouter(ctrl, "")

	cases := []string{
		"/api/v1/topic/images/similar",            // 两个都缺
		"/api/v1/topic/images/similar?id=1",       // 缺 sid
		"/api/v1/topic/images/similar?sid=100",    // 缺 id
		"/api/v1/topic/images/similar?id=x&sid=1", // id 无法解析
	}
	for _, url := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code, url)
	}
	assert.False(t, serviceCalled, "参数缺失时不应触达服务层")
}

func TestListSimilarImages_ParsesQuery(t *testing.T) {
	var captured *dto.ListSimilarImagesRequest
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{
		fn: func(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
			captured = req
			return &vo.SimilarImagesVO{Topics: []*vo.TopicResponse{}}, nil
		},
	})
	router := newImageRouter(ctrl, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/topic/images/similar?id=42&sid=100&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, uint64(42), captured.TopicID)
	assert.Equal(t, uint64(100), captured.CursorID)
	assert.Equal(t, 5, captured.Limit)
}

func TestListSimilarImages_InvalidLimitFallsBack(t *testing.T) {
	var captured *dto.ListSimilarImagesRequest
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{
		fn: func(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
			captured = req
			return &vo.SimilarImagesVO{Topics: []*vo.TopicResponse{}}, nil
		},
	})
	router := newImageRouter(ctrl, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/topic/images/similar?id=42&sid=100&limit=abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, 0, captured.Limit, "非法 limit 交由服务层取缺省")
}

func TestListSimilarImages_ReferenceNotFoundIs404(t *testing.T) {
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{
		fn: func(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	})
	router := newImageRouter(ctrl, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/topic/images/similar?id=404&sid=100", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLike_RequiresUser(t *testing.T) {
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{})
	router := newImageRouter(ctrl, "") // 不注入用户上下文

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/like", strings.NewReader(`{"topic_id":42}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleLike_InvalidBodyIs400(t *testing.T) {
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{}, &stubSimilarService{})
	router := newImageRouter(ctrl, "user-1")

	// topic_id 缺失，binding required 拦截
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/like", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLike_Success(t *testing.T) {
	var gotUserID string
	var gotTopicID uint64
	ctrl := NewImageController(&stubLikeService{
		fn: func(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error) {
			gotUserID = userID
			gotTopicID = topicID
			return &vo.ToggleLikeVO{Success: true, Liked: true}, nil
		},
	}, &stubClaimService{}, &stubSimilarService{})
	router := newImageRouter(ctrl, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/like", strings.NewReader(`{"topic_id":42}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, uint64(42), gotTopicID)
	assert.Contains(t, w.Body.String(), `"liked":true`)
}

func TestToggleLike_TopicNotFoundIs404(t *testing.T) {
	ctrl := NewImageController(&stubLikeService{
		fn: func(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}, &stubClaimService{}, &stubSimilarService{})
	router := newImageRouter(ctrl, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/like", strings.NewReader(`{"topic_id":404}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimImage_Success(t *testing.T) {
	var captured *dto.ClaimImageRequest
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{
		fn: func(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error) {
			captured = req
			return &vo.ClaimImageVO{Success: true, TopicID: req.TopicID}, nil
		},
	}, &stubSimilarService{})
	router := newImageRouter(ctrl, "user-1")

	w := httptest.NewRecorder()
	body := `{"topic_id":42,"board_id":"board-a","desc":"收一张"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/claim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, uint64(42), captured.TopicID)
	assert.Equal(t, "board-a", captured.BoardID)
	assert.Equal(t, "收一张", captured.Desc)
}

func TestClaimImage_MissingBoardIs400(t *testing.T) {
	var serviceCalled bool
	ctrl := NewImageController(&stubLikeService{}, &stubClaimService{
		fn: func(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error) {
			serviceCalled = true
			return nil, nil
		},
	}, &stubSimilarService{})
	router := newImageRouter(ctrl, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topic/images/claim", strings.NewReader(`{"topic_id":42}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, serviceCalled)
}
