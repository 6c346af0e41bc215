package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/myErrors"
	"github.com/Xushengqwer/topic_service/service"
)

// HotTopicController 定义热门话题控制器的结构体
type HotTopicController struct {
	hotTopicService service.HotTopicServiceInterface // 服务层接口
}

// NewHotTopicController 构造函数，注入服务层依赖
func NewHotTopicController(hotTopicService service.HotTopicServiceInterface) *HotTopicController {
	return &HotTopicController{
		hotTopicService: hotTopicService,
	}
}

// GetHotTopicsByCursor 处理获取热门话题的 HTTP 请求
// @Summary      通过游标获取热门话题
// @Description  使用基于游标的分页方式，检索热门话题列表。使用查询参数来传递游标和数量限制。
// @Tags         hot-topics (热门话题)
// @Accept       json
// @Produce      json
// @Param        last_topic_id query uint64 false "上一页最后一个话题的 ID，首页省略" Format(uint64)
// @Param        limit query int true "每页话题数量" Format(int) minimum(1)
// @Success      200 {object} vo.ListHotTopicsByCursorResponseWrapper "热门话题检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的输入参数（例如，无效的 limit 或 last_topic_id 格式）"
// @Failure      500 {object} vo.BaseResponseWrapper "检索热门话题时发生内部服务器错误"
// @Router       /api/v1/topic/hot-topics [get]
func (ctrl *HotTopicController) GetHotTopicsByCursor(c *gin.Context) {
	// 1. 处理 last_topic_id 参数（可选）
	var lastTopicID *uint64
	if lastTopicIDStr := c.Query("last_topic_id"); lastTopicIDStr != "" {
		id, err := strconv.ParseUint(lastTopicIDStr, 10, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 last topic ID 格式")
			return
		}
		lastTopicID = &id
	}

	// 2. 处理 limit 参数（必填）
	limitStr := c.Query("limit")
	if limitStr == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "limit 是必需的")
		return
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 limit，必须是正整数")
		return
	}

	// 3. 调用服务层获取热门话题
	topics, nextCursor, err := ctrl.hotTopicService.GetHotTopicsByCursor(c.Request.Context(), lastTopicID, limit)
	if err != nil {
		// 游标已被挤出榜单属于客户端可恢复的情况，提示刷新而非按服务端错误处理
		if errors.Is(err, myErrors.ErrCacheMiss) {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "游标已过期，请从第一页重新加载")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索热门话题失败: "+err.Error())
		return
	}

	responseData := vo.ListHotTopicsByCursorResponse{
		Topics:     topics,
		NextCursor: nextCursor,
	}

	response.RespondSuccess(c, responseData, "热门话题检索成功")
}

// RegisterRoutes 注册 HotTopicController 的路由
func (ctrl *HotTopicController) RegisterRoutes(group *gin.RouterGroup) {
	hotTopics := group.Group("/hot-topics")
	{
		hotTopics.GET("", ctrl.GetHotTopicsByCursor) // GET /hot-topics
	}
}
