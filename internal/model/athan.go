package model

import (
	"time"

	"github.com/appskottage/AKSalat/internal/method"
)

// AthanSettings is the prayer time configuration of one screen.
type AthanSettings struct {
	ScreenID  int           `db:"screen_id"  json:"screen_id"`
	DeviceID  string        `db:"device_id"  json:"device_id"`
	City      string        `db:"city"       json:"city"`
	Latitude  float64       `db:"latitude"   json:"latitude"`
	Longitude float64       `db:"longitude"  json:"longitude"`
	Method    method.Method `db:"method"     json:"method"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

type Prayer struct {
	Name   string `json:"name"`   // "FAJR", "DHUHR", …
	Time   string `json:"time"`   // "05:12"
	Period string `json:"period"` // "AM" or "PM"
	Iqama  string `json:"iqama"`
}

type AthanPageData struct {
	City    string        `json:"city"`
	Date    string        `json:"date"` // "AUGUST 5, 2025"
	Method  method.Method `json:"method"`
	Prayers []Prayer      `json:"prayers"`
}
