package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// is returned when email/password don't match.
var ErrInvalidCredentials = errors.New("invalid email or password")

const currentAdminKey = "currentAdmin"

// Admin is the authenticated operator making an admin request.
type Admin struct {
	Email string
}

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// retrieves *Admin from Gin context (after JWTMiddleware has run).
func GetCurrentAdmin(c *gin.Context) (*Admin, bool) {
	a, exists := c.Get(currentAdminKey)
	if !exists {
		return nil, false
	}
	admin, ok := a.(*Admin)
	return admin, ok
}
