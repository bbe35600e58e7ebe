package request

// LoginRequest represents an operator login request
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
