// Package aladhan computes prayer times through the api.aladhan.com timings
// endpoint, using its custom method so the parameters of any catalog method
// can be sent verbatim.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/appskottage/AKSalat/internal/method"
)

// customMethod tells aladhan to use methodSettings instead of a preset.
const customMethod = "99"

// Timings maps prayer names ("Fajr", "Sunrise", "Dhuhr", ...) to "15:04" times.
type Timings map[string]string

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Query builds the query string aladhan expects for p at the given location.
func Query(p method.Parameters, latitude, longitude float64) (url.Values, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	maghrib := "null"
	if p.MaghribAngle != nil {
		maghrib = formatAngle(*p.MaghribAngle)
	}
	var isha string
	if p.IshaInterval != nil {
		isha = fmt.Sprintf("%d min", *p.IshaInterval)
	} else {
		isha = formatAngle(*p.IshaAngle)
	}

	a := p.Adjustments
	// imsak, fajr, sunrise, dhuhr, asr, maghrib, sunset, isha, midnight
	tune := []int{0, a.Fajr, a.Sunrise, a.Dhuhr, a.Asr, a.Maghrib, 0, a.Isha, 0}
	parts := make([]string, len(tune))
	for i, v := range tune {
		parts[i] = strconv.Itoa(v)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("method", customMethod)
	q.Set("methodSettings", strings.Join([]string{formatAngle(p.FajrAngle), maghrib, isha}, ","))
	q.Set("tune", strings.Join(parts, ","))
	return q, nil
}

func formatAngle(deg float64) string {
	return strconv.FormatFloat(deg, 'f', -1, 64)
}

// Timings fetches the prayer times for date at the given location.
func (c *Client) Timings(ctx context.Context, p method.Parameters, latitude, longitude float64, date time.Time) (Timings, error) {
	q, err := Query(p, latitude, longitude)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/timings/%s?%s", c.baseURL, date.Format("02-01-2006"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build aladhan request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aladhan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aladhan returned %s", resp.Status)
	}

	var body struct {
		Data struct {
			Timings Timings `json:"timings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode aladhan response: %w", err)
	}
	if len(body.Data.Timings) == 0 {
		return nil, fmt.Errorf("aladhan response has no timings")
	}
	return body.Data.Timings, nil
}
