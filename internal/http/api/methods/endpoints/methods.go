package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/http/api"
	"github.com/appskottage/AKSalat/internal/http/api/methods/packets"
	"github.com/appskottage/AKSalat/internal/method"
)

// MethodsModule mounts the public, read-only method catalog.
func MethodsModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/methods", listMethods)
		c.PUBLIC_GET("/methods/:name", getMethod)
	})
}

// GET /api/methods
func listMethods(ctx *gin.Context) (any, *api.APIError) {
	all := method.All()
	out := make([]packets.MethodResponse, 0, len(all))
	for _, m := range all {
		out = append(out, packets.MethodResponse{Name: m.String(), Parameters: m.Params()})
	}
	return out, nil
}

// GET /api/methods/:name
func getMethod(ctx *gin.Context) (any, *api.APIError) {
	name := ctx.Param("name")
	m, err := method.Parse(name)
	if err != nil {
		log.Warn().Str("name", name).Msg("unknown calculation method requested")
		return nil, api.Errorf(http.StatusNotFound, "%v", err)
	}
	return packets.MethodResponse{Name: m.String(), Parameters: m.Params()}, nil
}
