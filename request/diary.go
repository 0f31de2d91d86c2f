package request

type DiaryCreateRequest struct {
	Content   string `json:"content" binding:"required"`
	MoodScore *int   `json:"mood_score" binding:"omitempty,min=1,max=5"`
}

type DiaryReflectRequest struct {
	Lang         string `json:"lang" binding:"omitempty,oneof=zh-CN en-US"`
	AnalyzeGoals bool   `json:"analyze_goals"`
}
