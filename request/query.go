package request

type TextQueryRequest struct {
	Question string `json:"question" binding:"required"`
	Subject  string `json:"subject" binding:"required,oneof=physics chemistry"`
	Lang     string `json:"lang" binding:"omitempty,oneof=zh-CN en-US"`

	// 手动指定讲解层级，auto 或留空按偏好和成绩推导
	Level     string `json:"level" binding:"omitempty,oneof=auto basic standard advanced"`
	DeepThink bool   `json:"deep_think"`

	// 是否把学习画像折算进提示词
	UseProfile bool `json:"use_profile"`
}

// ImageQueryRequest 图片题以 multipart 表单提交，图片文件字段名为 image
type ImageQueryRequest struct {
	Question   string `form:"question"`
	Subject    string `form:"subject" binding:"required,oneof=physics chemistry"`
	Lang       string `form:"lang" binding:"omitempty,oneof=zh-CN en-US"`
	Level      string `form:"level" binding:"omitempty,oneof=auto basic standard advanced"`
	DeepThink  bool   `form:"deep_think"`
	UseProfile bool   `form:"use_profile"`
}
