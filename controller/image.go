package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/service"
)

// ImageController 定义图片话题互动（喜欢/收图/相似检索）控制器的结构体
type ImageController struct {
	likeService    service.LikeService
	claimService   service.ClaimService
	similarService service.SimilarService
}

// NewImageController 构造函数，用于创建 ImageController 实例
func NewImageController(likeService service.LikeService, claimService service.ClaimService, similarService service.SimilarService) *ImageController {
	return &ImageController{
		likeService:    likeService,
		claimService:   claimService,
		similarService: similarService,
	}
}

// ToggleLike 处理对图片话题的喜欢开关
// @Summary      喜欢/取消喜欢图片话题
// @Description  同一接口承担两种语义：已喜欢则取消，未喜欢则建立。并发下取消时关系已不存在返回 success=false（HTTP 仍为 200）。
// @Tags         images (图片互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeImageRequest true "喜欢请求"
// @Success      200 {object} vo.ToggleLikeResponseWrapper "操作完成（含软冲突情况）"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权或认证失败"
// @Failure      404 {object} vo.BaseResponseWrapper "话题不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/topic/images/like [post]
func (ctrl *ImageController) ToggleLike(c *gin.Context) {
	var req dto.LikeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.likeService.ToggleLike(c.Request.Context(), userID, req.TopicID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "话题不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "喜欢操作失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, result, "喜欢操作完成")
}

// ClaimImage 处理把图片话题收入 Board 的请求
// @Summary      Get 图片（收入画板）
// @Description  把图片话题收入指定 Board。重复收入同一 Board 返回 success=false（HTTP 仍为 200）；换 Board 时覆盖原记录。
// @Tags         images (图片互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.ClaimImageRequest true "收图请求"
// @Success      200 {object} vo.ClaimImageResponseWrapper "操作完成（含软冲突情况）"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权或认证失败"
// @Failure      404 {object} vo.BaseResponseWrapper "话题不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/topic/images/claim [post]
func (ctrl *ImageController) ClaimImage(c *gin.Context) {
	// 必填字段由 binding 标签校验，缺失时返回 400 并列出字段错误，不做任何写入
	var req dto.ClaimImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.claimService.ClaimImage(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "话题不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "收图失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, result, "收图操作完成")
}

// ListSimilarImages 处理相似图片检索
// @Summary      检索相似图片话题
// @Description  按感知指纹的汉明距离返回与参照话题相似的图片话题，按 ID 降序游标分页。
// @Tags         images (图片互动)
// @Accept       json
// @Produce      json
// @Param        id query uint64 true "参照话题 ID" Format(uint64)
// @Param        sid query uint64 true "游标，仅返回 ID 小于该值的结果" Format(uint64)
// @Param        limit query int false "返回条数 (1-10，缺省 3)" Format(int)
// @Success      200 {object} vo.SimilarImagesResponseWrapper "相似图片检索成功"
// @Failure      404 {object} vo.BaseResponseWrapper "参照话题不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "缺少必需参数或服务器内部错误"
// @Router       /api/v1/topic/images/similar [get]
func (ctrl *ImageController) ListSimilarImages(c *gin.Context) {
	// id 与 sid 手工解析；缺失按约定返回 500 级结构化错误，不发起任何存储查询
	idStr := c.Query("id")
	sidStr := c.Query("sid")
	if idStr == "" || sidStr == "" {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "缺少必需的查询参数 id 或 sid")
		return
	}

	topicID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "无效的参照话题 ID")
		return
	}
	cursorID, err := strconv.ParseUint(sidStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "无效的游标 sid")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		// limit 非法时按缺省处理，由服务层钳制
		if parsed, parseErr := strconv.Atoi(limitStr); parseErr == nil {
			limit = parsed
		}
	}

	req := &dto.ListSimilarImagesRequest{
		TopicID:  topicID,
		CursorID: cursorID,
		Limit:    limit,
	}

	result, err := ctrl.similarService.ListSimilar(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "参照话题不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "相似图片检索失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, result, "相似图片检索成功")
}

// RegisterRoutes 注册 ImageController 的路由
func (ctrl *ImageController) RegisterRoutes(group *gin.RouterGroup) {
	images := group.Group("/images")
	{
		images.POST("/like", ctrl.ToggleLike)            // POST /api/v1/topic/images/like
		images.POST("/claim", ctrl.ClaimImage)           // POST /api/v1/topic/images/claim
		images.GET("/similar", ctrl.ListSimilarImages)   // GET /api/v1/topic/images/similar
	}
}
