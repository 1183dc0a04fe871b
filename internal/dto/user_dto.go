package dto

type OnboardUserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Image    string `json:"image" binding:"omitempty,url"`
	Bio      string `json:"bio" binding:"max=1000"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Image     string `json:"image"`
	Bio       string `json:"bio"`
	Onboarded bool   `json:"onboarded"`
}
