package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/http/api"
	"github.com/appskottage/AKSalat/internal/http/api/admin/auth/packets"
	"github.com/appskottage/AKSalat/internal/http/middleware"
)

// AuthPublicModule mounts the public login endpoint (/auth/login)
func AuthPublicModule(jwtSecret, adminEmail, adminPasswordHash string) api.Module {
	ctl := &AccountManager{
		jwtSecret:    jwtSecret,
		adminEmail:   adminEmail,
		passwordHash: adminPasswordHash,
	}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

// AuthSessionModule mounts session endpoints (JWT required)
func AuthSessionModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", getCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret    string
	adminEmail   string
	passwordHash string
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// no admin configured means nobody can log in
	if a.adminEmail == "" || a.passwordHash == "" ||
		request.Email != a.adminEmail ||
		!middleware.CheckPassword(a.passwordHash, request.Password) {
		log.Warn().Str("email", request.Email).Msg("failed admin login")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(request.Email, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("could not generate token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return gin.H{"token": token}, nil
}

// GET /api/admin/auth/current_profile
func getCurrentProfile(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	return gin.H{"email": admin.Email}, nil
}
