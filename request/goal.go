package request

type GoalCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type GoalUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active completed archived"`
}
