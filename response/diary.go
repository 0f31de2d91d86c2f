package response

// DiaryStatsResponse 日记打卡统计
type DiaryStatsResponse struct {
	HasToday bool `json:"has_today"`
	Streak   int  `json:"streak"`
}
