package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/http/api"
	"github.com/appskottage/AKSalat/internal/http/api/admin/control/packets"
	"github.com/appskottage/AKSalat/internal/http/middleware"
	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
	"github.com/appskottage/AKSalat/internal/notify"
)

type AthanController struct {
	store         db.Store
	notifier      notify.Notifier
	defaultMethod method.Method
}

// AthanModule mounts the authenticated athan settings endpoints.
func AthanModule(store db.Store, notifier notify.Notifier, defaultMethod method.Method) api.Module {
	ctl := &AthanController{store: store, notifier: notifier, defaultMethod: defaultMethod}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/athan", ctl.listAthanSettings)
		c.GET("/screens/:id/athan", ctl.getAthanSettings)
		c.PUT("/screens/:id/athan", ctl.updateAthanSettings)
		c.DELETE("/screens/:id/athan", ctl.deleteAthanSettings)
	})
}

func toResponse(s model.AthanSettings) (packets.AthanResponse, *api.APIError) {
	params, ok := method.Resolve(s.Method)
	if !ok {
		log.Error().Int("screen_id", s.ScreenID).Int("method", int(s.Method)).Msg("stored athan settings carry no valid calculation method")
		return packets.AthanResponse{}, &api.APIError{Code: http.StatusInternalServerError, Message: "screen has no valid calculation method"}
	}
	return packets.AthanResponse{
		ScreenID:   s.ScreenID,
		DeviceID:   s.DeviceID,
		City:       s.City,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Method:     s.Method.String(),
		Parameters: params,
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func screenID(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid screen id in URL")
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

func storeError(err error, id int) *api.APIError {
	if errors.Is(err, db.ErrNotFound) {
		return &api.APIError{Code: http.StatusNotFound, Message: "athan settings not found"}
	}
	log.Error().Err(err).Int("screen_id", id).Msg("athan settings store failure")
	return &api.APIError{Code: http.StatusInternalServerError, Message: "could not load athan settings"}
}

// GET /api/admin/athan
func (a *AthanController) listAthanSettings(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	all, err := a.store.ListAthanSettings()
	if err != nil {
		return nil, api.Errorf(http.StatusInternalServerError, "could not list athan settings: %v", err)
	}
	out := make([]packets.AthanResponse, 0, len(all))
	for _, s := range all {
		resp, apiErr := toResponse(s)
		if apiErr != nil {
			return nil, apiErr
		}
		out = append(out, resp)
	}
	return out, nil
}

// GET /api/admin/screens/:id/athan
func (a *AthanController) getAthanSettings(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := screenID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	s, err := a.store.GetAthanSettings(id)
	if err != nil {
		return nil, storeError(err, id)
	}
	return toResponse(s)
}

// PUT /api/admin/screens/:id/athan
func (a *AthanController) updateAthanSettings(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := screenID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateAthanRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	m := a.defaultMethod
	if request.Method != "" {
		parsed, err := method.Parse(request.Method)
		if err != nil {
			log.Warn().Str("method", request.Method).Int("screen_id", id).Msg("rejected unknown calculation method")
			return nil, api.Errorf(http.StatusBadRequest, "%v", err)
		}
		m = parsed
	}

	saved, err := a.store.UpsertAthanSettings(model.AthanSettings{
		ScreenID:  id,
		DeviceID:  request.DeviceID,
		City:      request.City,
		Latitude:  *request.Latitude,
		Longitude: *request.Longitude,
		Method:    m,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save athan settings"}
	}

	log.Info().
		Str("admin", admin.Email).
		Int("screen_id", id).
		Str("method", m.String()).
		Msg("athan settings updated")

	// the screen still picks the change up on its next fetch if this fails
	if err := a.notifier.MethodChanged(saved); err != nil {
		log.Warn().Err(err).Str("device_id", saved.DeviceID).Msg("could not notify screen")
	}

	return toResponse(saved)
}

// DELETE /api/admin/screens/:id/athan
func (a *AthanController) deleteAthanSettings(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := screenID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := a.store.DeleteAthanSettings(id); err != nil {
		return nil, storeError(err, id)
	}
	return gin.H{"success": "athan settings deleted"}, nil
}
