package packets

import "github.com/appskottage/AKSalat/internal/method"

// RESPONSES FOR /api/admin/screens/:id/athan

// AthanResponse flattens model.AthanSettings and includes the resolved parameters.
type AthanResponse struct {
	ScreenID   int               `json:"screen_id"`
	DeviceID   string            `json:"device_id"`
	City       string            `json:"city"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Method     string            `json:"method"`
	Parameters method.Parameters `json:"parameters"`
	UpdatedAt  string            `json:"updated_at"`
}
