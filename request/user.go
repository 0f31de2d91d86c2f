package request

type UpdateScoresRequest struct {
	PhysicsScore   *int `json:"physics_score" binding:"omitempty,min=0,max=100"`
	ChemistryScore *int `json:"chemistry_score" binding:"omitempty,min=0,max=100"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UpdateLevelRequest struct {
	Level string `json:"level" binding:"required,oneof=auto basic standard advanced"`
}
