package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/aladhan"
	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/http/api"
	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
)

// Calculator turns calculation parameters into prayer clock times.
type Calculator interface {
	Timings(ctx context.Context, p method.Parameters, latitude, longitude float64, date time.Time) (aladhan.Timings, error)
}

var _ Calculator = (*aladhan.Client)(nil)

type IntegrationController struct {
	store      db.Store
	calculator Calculator
	now        func() time.Time
}

// IntegrationsModule mounts the unauthenticated integration endpoints screens poll.
func IntegrationsModule(store db.Store, calculator Calculator) api.Module {
	ctl := &IntegrationController{store: store, calculator: calculator, now: time.Now}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/integrations/:name/:device_id", ctl.serveIntegration)
	})
}

// GET /api/tv/integrations/:name/:device_id
func (i *IntegrationController) serveIntegration(ctx *gin.Context) (any, *api.APIError) {
	switch name := ctx.Param("name"); name {
	case "athan":
		return i.serveAthan(ctx)
	default:
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "integration not found"}
	}
}

var prayerOrder = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

func (i *IntegrationController) serveAthan(ctx *gin.Context) (any, *api.APIError) {
	deviceID := ctx.Param("device_id")
	settings, err := i.store.GetAthanSettingsByDevice(deviceID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "athan is not configured for this screen"}
	}
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to load athan settings")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load athan settings"}
	}

	date := i.now()
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		date = parsed
	}

	params, ok := method.Resolve(settings.Method)
	if !ok {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "screen has no valid calculation method"}
	}

	timings, err := i.calculator.Timings(ctx.Request.Context(), params, settings.Latitude, settings.Longitude, date)
	if err != nil {
		log.Error().Err(err).
			Str("device_id", deviceID).
			Str("method", settings.Method.String()).
			Msg("failed to get prayer times")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to get prayer times"}
	}

	prayers := make([]model.Prayer, 0, len(prayerOrder))
	for _, nm := range prayerOrder {
		clock, period, err := to12Hour(timings[nm])
		if err != nil {
			log.Error().Err(err).Str("prayer", nm).Str("value", timings[nm]).Msg("unexpected prayer time")
			return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to get prayer times"}
		}
		prayers = append(prayers, model.Prayer{
			Name:   strings.ToUpper(nm),
			Time:   clock,
			Period: period,
			Iqama:  "00:00",
		})
	}

	return model.AthanPageData{
		City:    strings.ToUpper(settings.City),
		Date:    strings.ToUpper(date.Format("January 2, 2006")),
		Method:  settings.Method,
		Prayers: prayers,
	}, nil
}

// to12Hour converts "17:30" to ("05:30", "PM"). Trailing text such as a
// timezone label is ignored.
func to12Hour(t24 string) (string, string, error) {
	fields := strings.Fields(t24)
	if len(fields) == 0 {
		return "", "", fmt.Errorf("empty time")
	}
	parts := strings.Split(fields[0], ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed time %q", t24)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", "", fmt.Errorf("malformed hour in %q", t24)
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%s", h, parts[1]), period, nil
}
