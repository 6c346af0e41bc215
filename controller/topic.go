package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response" // 通用响应包
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/myErrors"
	"github.com/Xushengqwer/topic_service/service"
)

// adminRoleHeader 网关在管理员请求上透传的角色头
const adminRoleHeader = "X-User-Role"

// TopicController 定义话题控制器的结构体
type TopicController struct {
	topicService service.TopicService // 服务层接口，通过依赖注入传入
}

// NewTopicController 构造函数，用于创建 TopicController 实例
func NewTopicController(topicService service.TopicService) *TopicController {
	return &TopicController{
		topicService: topicService,
	}
}

// requireUserID 从 gin.Context 取出网关透传的 UserID，取不到时写出 401。
func requireUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(string(constants.UserIDKey))
	if !exists {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息 (Context Key Not Found)")
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取有效的用户 ID (Invalid UserID in Context)")
		return "", false
	}
	return userID, true
}

// ListTopics 获取话题列表 (分页)
// @Summary      获取话题列表 (公开)
// @Description  按板块/类型筛选话题列表，分页加载。已登录用户额外返回每条话题的已喜欢标记。
// @Tags         topics (话题)
// @Accept       json
// @Produce      json
// @Param        forum query string false "板块 (空或 all:全部, good:精华, 其他:板块名)" maxLength(32)
// @Param        type query string false "话题类型" Enums(text,image)
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Success      200 {object} vo.TopicListPageResponseWrapper "成功响应，包含话题列表和分页信息"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/topic/topics [get]
func (ctrl *TopicController) ListTopics(c *gin.Context) {
	// 1. 绑定并验证查询参数
	var reqDTO dto.ListTopicsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	// 匿名可访问，取不到 UserID 时为空字符串
	userID := c.GetString(string(constants.UserIDKey))

	pageVO, err := ctrl.topicService.ListTopics(c.Request.Context(), userID, &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取话题列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, pageVO, "话题列表获取成功")
}

// GetTopicDetail 处理获取话题详情的 HTTP 请求
// @Summary      获取指定ID的话题详情 (公开)
// @Description  通过话题的 ID 检索详细信息，含当前用户的收藏状态。已登录用户访问会异步增加浏览量。
// @Tags         topics (话题)
// @Accept       json
// @Produce      json
// @Param        topic_id path uint64 true "话题 ID" Format(uint64)
// @Success      200 {object} vo.TopicDetailResponseWrapper "话题详情检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的话题 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "话题不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索话题详情时发生内部服务器错误"
// @Router       /api/v1/topic/topics/{topic_id} [get]
func (ctrl *TopicController) GetTopicDetail(c *gin.Context) {
	topicIDStr := c.Param("topic_id")
	topicID, err := strconv.ParseUint(topicIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的话题 ID 格式")
		return
	}

	// 匿名用户 userID 为空字符串，收藏状态按未收藏返回
	userID := c.GetString(string(constants.UserIDKey))

	detail, err := ctrl.topicService.GetTopicDetail(c.Request.Context(), topicID, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "话题不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索话题详情失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, detail, "话题详情检索成功")
}

// CreateTopic 处理用户创建新话题的请求，包括可选的图片文件
// @Summary      创建新话题
// @Description  创建一个新话题，请求体为 multipart/form-data。携带 image 文件时创建为图片话题，需一并提供 image_hash 感知指纹。
// @Tags         topics (话题)
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string true "话题标题 (5-100字符)" minLength(5) maxLength(100)
// @Param        content formData string true "话题内容" maxLength(10000)
// @Param        forum formData string true "所属板块" maxLength(32)
// @Param        mention formData string false "含 @用户 的原始文本 (缺省取 content)"
// @Param        image_hash formData string false "图片感知指纹 (16个十六进制字符)"
// @Param        image formData file false "话题图片文件 (可选)"
// @Success      200 {object} vo.TopicDetailResponseWrapper "话题创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或文件处理错误"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权或认证失败"
// @Failure      500 {object} vo.BaseResponseWrapper "创建话题时发生内部服务器错误"
// @Router       /api/v1/topic/topics [post]
func (ctrl *TopicController) CreateTopic(c *gin.Context) {
	// 1. 解析 Multipart Form (确保在访问表单数据或文件之前调用)
	// 设置表单解析的最大内存，超出部分会存到临时磁盘文件
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	// 2. 绑定 DTO 数据 (来自独立的表单字段)
	var req dto.CreateTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// 3. 获取可选的图片文件，"image" 是前端上传文件时使用的字段名
	var imageFile *multipart.FileHeader
	form := c.Request.MultipartForm
	if form != nil {
		if files := form.File["image"]; len(files) > 0 {
			imageFile = files[0]
		}
	}

	// 4. 调用服务层处理
	detailVO, serviceErr := ctrl.topicService.CreateTopic(c.Request.Context(), userID, &req, imageFile)
	if serviceErr != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建话题失败: "+serviceErr.Error())
		return
	}

	response.RespondSuccess(c, detailVO, "话题创建成功")
}

// UpdateTopic 处理编辑话题的 HTTP 请求
// @Summary      编辑指定ID的话题
// @Description  编辑话题的标题/正文/板块，仅作者本人或管理员可操作。
// @Tags         topics (话题)
// @Accept       json
// @Produce      json
// @Param        topic_id path uint64 true "话题 ID" Format(uint64)
// @Param        request body dto.UpdateTopicRequest true "编辑内容"
// @Success      200 {object} vo.TopicResponseWrapper "话题编辑成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权或认证失败"
// @Failure      403 {object} vo.BaseResponseWrapper "非作者且非管理员"
// @Failure      404 {object} vo.BaseResponseWrapper "话题不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "编辑话题时发生内部服务器错误"
// @Router       /api/v1/topic/topics/{topic_id} [put]
func (ctrl *TopicController) UpdateTopic(c *gin.Context) {
	topicIDStr := c.Param("topic_id")
	topicID, err := strconv.ParseUint(topicIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的话题 ID 格式")
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	isAdmin := c.GetHeader(adminRoleHeader) == "admin"

	topicVO, serviceErr := ctrl.topicService.UpdateTopic(c.Request.Context(), userID, isAdmin, topicID, &req)
	if serviceErr != nil {
		switch {
		case errors.Is(serviceErr, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "话题不存在")
		case errors.Is(serviceErr, myErrors.ErrUnauthorized):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "无权编辑该话题")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "编辑话题失败: "+serviceErr.Error())
		}
		return
	}

	response.RespondSuccess(c, topicVO, "话题编辑成功")
}

// RegisterRoutes 注册 TopicController 的路由
func (ctrl *TopicController) RegisterRoutes(group *gin.RouterGroup) {
	topics := group.Group("/topics")
	{
		topics.GET("", ctrl.ListTopics)                // GET /api/v1/topic/topics
		topics.POST("", ctrl.CreateTopic)              // POST /api/v1/topic/topics
		topics.GET("/:topic_id", ctrl.GetTopicDetail)  // GET /api/v1/topic/topics/:topic_id
		topics.PUT("/:topic_id", ctrl.UpdateTopic)     // PUT /api/v1/topic/topics/:topic_id
	}
}
