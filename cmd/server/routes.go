package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/appskottage/AKSalat/internal/config"
	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/http/api"
	authapi "github.com/appskottage/AKSalat/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/appskottage/AKSalat/internal/http/api/admin/control/endpoints"
	methodsapi "github.com/appskottage/AKSalat/internal/http/api/methods/endpoints"
	clientapi "github.com/appskottage/AKSalat/internal/http/api/tv/endpoints"
	"github.com/appskottage/AKSalat/internal/notify"
)

// Services are the collaborators the HTTP modules need.
type Services struct {
	Store      db.Store
	Notifier   notify.Notifier
	Calculator clientapi.Calculator
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	// method names such as "SIHAT/KEMENAG (...)" arrive with an escaped slash
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		methodsapi.MethodsModule(),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		authapi.AuthPublicModule(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		authapi.AuthSessionModule(),
		adminapi.AthanModule(svc.Store, svc.Notifier, cfg.DefaultMethod),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.IntegrationsModule(svc.Store, svc.Calculator),
	)
}
