package dto

// CreateTopicRequest 定义了创建话题的请求数据结构
// - 添加了 binding 标签用于输入验证
type CreateTopicRequest struct {
	Title   string `json:"title" form:"title" binding:"required,min=5,max=100"`  // 话题标题，必填，5到100字符
	Content string `json:"content" form:"content" binding:"required,max=10000"`  // 话题内容，必填，最大10000字符
	Forum   string `json:"forum" form:"forum" binding:"required,max=32"`         // 所属板块，必填
	Mention string `json:"mention" form:"mention" binding:"omitempty,max=10000"` // 可能包含 @用户 的原始文本，可选，缺省时使用 Content

	// ImageHash 图片的感知指纹，16个十六进制字符，由上传侧的图片处理管线计算。
	// - 携带图片的请求必须同时携带该字段，否则该话题无法参与相似图片检索。
	ImageHash string `json:"image_hash" form:"image_hash" binding:"omitempty,len=16,hexadecimal"`

	// 注意：这里没有 Image 字段，图片文件是作为 multipart/form-data 的一部分直接上传的。
	// 携带图片的请求会被创建为图片类型话题。
}

// UpdateTopicRequest 定义了编辑话题的请求数据结构
// - 只有作者本人或管理员可以编辑，权限校验在 Service 层完成。
type UpdateTopicRequest struct {
	Title   string `json:"title" form:"title" binding:"required,min=5,max=100"` // 话题标题，必填，5到100字符
	Content string `json:"content" form:"content" binding:"required,max=10000"` // 话题内容，必填，最大10000字符
	Forum   string `json:"forum" form:"forum" binding:"required,max=32"`        // 所属板块，必填
}

// ListTopicsRequest 定义了话题列表页的查询参数。
// - 用于控制器层接收和验证来自客户端的HTTP请求。
type ListTopicsRequest struct {
	// Forum 板块筛选条件。
	// - 空或 "all" 表示全部板块，"good" 表示精华话题，其余值按板块名精确筛选。
	Forum string `form:"forum" binding:"omitempty,max=32"`

	// Type 话题类型筛选条件。
	// - binding:"omitempty,oneof=text image"`: 可选，如果提供，必须是 text 或 image 之一。
	Type string `form:"type" binding:"omitempty,oneof=text image"`

	// Page 页码，从 1 开始，缺省为 1。
	Page int `form:"page" binding:"omitempty,gte=1"`
}
