package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/controllers"
	"github.com/whatsons/members-api/mailer"
	"github.com/whatsons/members-api/routes"
	"github.com/whatsons/members-api/storage"
	"github.com/whatsons/members-api/utils"
)

// newTestServer wires the full route table against a throwaway sqlite DB.
func newTestServer(t *testing.T) (*gin.Engine, storage.Store, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.OpenGorm("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.Load()
	cfg.Export.Dir = t.TempDir()
	cfg.Upload.LocalDir = t.TempDir()
	// Generous limits so rate limiting never trips ordinary tests.
	cfg.Auth.LoginRatePerMin = 6000
	cfg.Auth.LoginRateBurst = 1000

	log := zerolog.Nop()
	mail := mailer.NewLogMailer(log)
	uploader := utils.NewUploader(cfg.Upload)

	r := gin.New()
	routes.Setup(r, cfg, store, routes.Controllers{
		Auth:         controllers.NewAuthController(store, cfg, log, mail),
		Events:       controllers.NewEventController(store, log),
		Participants: controllers.NewParticipantController(store, log),
		Admin:        controllers.NewAdminController(store, log),
		Settings:     controllers.NewSettingsController(store, log),
		Profile:      controllers.NewProfileController(store, log),
		Export:       controllers.NewExportController(store, cfg, log),
		Upload:       controllers.NewUploadController(uploader, cfg, log),
		Health:       controllers.NewHealthController(store),
	})
	return r, store, cfg
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerPayload(username string) map[string]any {
	return map[string]any{
		"username":   username,
		"password":   "secret123",
		"firstName":  "Test",
		"lastName":   "User",
		"email":      username + "@example.com",
		"phone":      "5551234567",
		"city":       "Istanbul",
		"occupation": "Tester",
	}
}

// registerUser registers a user and returns the response body plus the
// logged-in session cookie.
func registerUser(t *testing.T, r *gin.Engine, username string) (map[string]any, *http.Cookie) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/register", registerPayload(username), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w), sessionCookie(t, w)
}
