package request

type UserRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

type UserLoginRequest struct {
	// 邮箱或手机号
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}
