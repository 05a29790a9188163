package web_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/bot"
	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
	"github.com/ventilia/nuclear-donor-bot/internal/web"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	if err := db.Init(filepath.Join(t.TempDir(), "web_test.db"), nil); err != nil {
		t.Fatalf("db init: %v", err)
	}
	client := bot.NewClient("test-token")
	d := bot.NewDispatcher(client, zap.NewNop(), "", nil)
	return web.Router(d, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: want 200, got %d", rec.Code)
	}
}

// TestQR_UnknownCode: the QR endpoint 404s for codes with no registration
// behind them, so it cannot be used to mint arbitrary images.
func TestQR_UnknownCode(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/qr/REG-999999.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code: want 404, got %d", rec.Code)
	}
}

func TestQR_KnownCode(t *testing.T) {
	r := newTestRouter(t)
	db.Conn().Create(&models.Registration{
		UserID: 1, EventID: 1, Status: models.RegStatusRegistered, Code: "REG-123456",
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/qr/REG-123456.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("known code: want 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: want image/png, got %s", ct)
	}
	if rec.Body.Len() == 0 {
		t.Errorf("empty image body")
	}
}

// TestWebhook_AlwaysAccepts: malformed and empty updates still return 200 so
// the chat platform stops redelivering them.
func TestWebhook_AlwaysAccepts(t *testing.T) {
	r := newTestRouter(t)

	for _, body := range []string{`{"update_id": 1}`, `not json at all`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/tg/webhook", strings.NewReader(body))
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("webhook(%q): want 200, got %d", body, rec.Code)
		}
	}
}
