package packets

// REQUESTS FOR /api/admin/auth/*

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
