package response

type UserAuthResponse struct {
	UserID uint    `json:"user_id"`
	Name   string  `json:"name"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Token  string  `json:"token"`
}
