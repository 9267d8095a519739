package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/http/api"
	"github.com/appskottage/AKSalat/internal/http/api/admin/control/packets"
	"github.com/appskottage/AKSalat/internal/http/middleware"
	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
)

const jwtSecret = "supersecret"

type recordingNotifier struct {
	sent []model.AthanSettings
	err  error
}

func (n *recordingNotifier) MethodChanged(s model.AthanSettings) error {
	n.sent = append(n.sent, s)
	return n.err
}

type fixture struct {
	router   *gin.Engine
	store    *db.MemoryStore
	notifier *recordingNotifier
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{store: db.NewMemoryStore(), notifier: &recordingNotifier{}}
	f.router = gin.New()
	api.MountGroup(f.router, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: jwtSecret},
		AthanModule(f.store, f.notifier, method.MuslimWorldLeague))

	token, err := middleware.GenerateJWT("admin@example.com", jwtSecret)
	require.NoError(t, err)
	f.token = token
	return f
}

func (f *fixture) do(verb, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(verb, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUpdateAthanSettings(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/api/admin/screens/5/athan", map[string]any{
		"device_id": "tv-5",
		"city":      "MAKKAH",
		"latitude":  21.4225,
		"longitude": 39.8262,
		"method":    "Umm al-Qura, Makkah",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp packets.AthanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.ScreenID)
	assert.Equal(t, "Umm al-Qura, Makkah", resp.Method)
	assert.Equal(t, method.UmmAlQura.Params(), resp.Parameters)

	stored, err := f.store.GetAthanSettings(5)
	require.NoError(t, err)
	assert.Equal(t, method.UmmAlQura, stored.Method)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "tv-5", f.notifier.sent[0].DeviceID)
	assert.Equal(t, method.UmmAlQura, f.notifier.sent[0].Method)
}

func TestUpdateAthanSettingsDefaultMethod(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/api/admin/screens/1/athan", map[string]any{
		"device_id": "tv-1",
		"latitude":  0,
		"longitude": 0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := f.store.GetAthanSettings(1)
	require.NoError(t, err)
	assert.Equal(t, method.MuslimWorldLeague, stored.Method)
}

func TestUpdateAthanSettingsUnknownMethod(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/api/admin/screens/1/athan", map[string]any{
		"device_id": "tv-1",
		"latitude":  41.8781,
		"longitude": -87.6298,
		"method":    "muslim world league",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown calculation method")

	_, err := f.store.GetAthanSettings(1)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, f.notifier.sent)
}

func TestUpdateAthanSettingsValidation(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest,
		f.do(http.MethodPut, "/api/admin/screens/abc/athan", map[string]any{"device_id": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		f.do(http.MethodPut, "/api/admin/screens/1/athan", map[string]any{"device_id": "x", "latitude": 1}).Code)
}

func TestNotifierFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	w := f.do(http.MethodPut, "/api/admin/screens/2/athan", map[string]any{
		"device_id": "tv-2",
		"latitude":  25.2,
		"longitude": 55.27,
		"method":    method.UAE.String(),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetListDeleteAthanSettings(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/admin/screens/9/athan", nil).Code)

	_, err := f.store.UpsertAthanSettings(model.AthanSettings{ScreenID: 9, DeviceID: "tv-9", Method: method.Tehran})
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/api/admin/screens/9/athan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp packets.AthanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "University of Tehran", resp.Method)
	require.NotNil(t, resp.Parameters.MaghribAngle)
	assert.Equal(t, 4.5, *resp.Parameters.MaghribAngle)

	w = f.do(http.MethodGet, "/api/admin/athan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []packets.AthanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/admin/screens/9/athan", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/admin/screens/9/athan", nil).Code)
}

func TestInvalidStoredMethodIsServerError(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.UpsertAthanSettings(model.AthanSettings{ScreenID: 4, DeviceID: "tv-4"})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodGet, "/api/admin/athan", nil).Code)
		assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodGet, "/api/admin/screens/4/athan", nil).Code)
	})
}

func TestAthanSettingsRequireAuth(t *testing.T) {
	f := newFixture(t)
	f.token = "not-a-token"
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/admin/athan", nil).Code)
}
