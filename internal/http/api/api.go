package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/http/middleware"
)

// APIError is the failure half of every handler result. It is rendered as
// {"error": Message} with status Code.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Errorf builds an APIError with a formatted message.
func Errorf(code int, format string, args ...any) *APIError {
	return &APIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type HandlerFuncWithAuth func(ctx *gin.Context, admin *middleware.Admin) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		admin, ok := middleware.GetCurrentAdmin(ctx)
		if !ok {
			respond(ctx, nil, Errorf(http.StatusUnauthorized, "unauthorized"))
			return
		}
		result, apiErr := h(ctx, admin)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr == nil {
		ctx.JSON(http.StatusOK, result)
		return
	}
	if apiErr.Code >= http.StatusInternalServerError {
		log.Error().
			Int("status", apiErr.Code).
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Msg(apiErr.Message)
	}
	ctx.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
}
