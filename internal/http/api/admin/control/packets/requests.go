package packets

// REQUESTS FOR /api/admin/screens/:id/athan

// UpdateAthanRequest carries the method as its canonical name. An empty
// Method selects the server's default method.
type UpdateAthanRequest struct {
	DeviceID  string   `json:"device_id" binding:"required"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"  binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Method    string   `json:"method"`
}
