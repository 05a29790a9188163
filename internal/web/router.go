// Package web exposes the HTTP surface: the webhook the chat platform posts
// updates to, QR images for registration codes and a health probe.
package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/bot"
	"github.com/ventilia/nuclear-donor-bot/internal/services"
)

func Router(d *bot.Dispatcher, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health)
	r.Post("/tg/webhook", webhook(d, log))
	r.Get("/qr/{code}.png", qr)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// webhook always answers 200: the chat platform retries non-2xx responses
// and a malformed update would otherwise be redelivered forever.
func webhook(d *bot.Dispatcher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		var u bot.Update
		if err := json.Unmarshal(body, &u); err != nil {
			log.Warn("bad webhook payload", zap.Error(err))
			w.WriteHeader(http.StatusOK)
			return
		}
		d.Handle(&u)
		w.WriteHeader(http.StatusOK)
	}
}

func qr(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := services.RegistrationByCode(code); err != nil {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
