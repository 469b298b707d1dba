package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cardconjurer/internal/auth"
	"cardconjurer/internal/card"
	"cardconjurer/internal/cardset"
	"cardconjurer/internal/config"
	"cardconjurer/internal/httpx"
	"cardconjurer/internal/importer"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	sets    *cardset.HTTPHandler
	cards   *card.HTTPHandler
	imports *importer.HTTPHandler
}

func newRouter(cfg config.Config, db pinger, policies *auth.Policies, h handlers, log *zap.Logger) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authed := auth.Middleware(cfg.JWTSecret, policies)
	user := func(fn http.HandlerFunc) http.Handler {
		return authed(fn)
	}
	staff := func(fn http.HandlerFunc) http.Handler {
		return authed(auth.RequireStaff(fn))
	}

	router.Handle("GET /v1/sets", user(h.sets.List))
	router.Handle("GET /v1/sets/{id}", user(h.sets.Get))
	router.Handle("POST /v1/sets", staff(h.sets.Create))
	router.Handle("PUT /v1/sets/{id}", staff(h.sets.Update))
	router.Handle("DELETE /v1/sets/{id}", staff(h.sets.Delete))
	router.Handle("POST /v1/sets/{id}/import", staff(h.imports.Import))

	router.Handle("GET /v1/sets/{id}/cards", user(h.cards.ListBySet))
	router.Handle("POST /v1/cards", user(h.cards.Create))
	router.Handle("GET /v1/cards/{id}", user(h.cards.Get))
	router.Handle("PUT /v1/cards/{id}", user(h.cards.Replace))
	router.Handle("PATCH /v1/cards/{id}", user(h.cards.Patch))
	router.Handle("POST /v1/cards/{id}", user(h.cards.Patch))
	router.Handle("DELETE /v1/cards/{id}", user(h.cards.Delete))

	if prefix := cfg.MediaURL; strings.HasPrefix(prefix, "/") {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		media := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.MediaRoot)))
		router.Handle("GET "+prefix, media)
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.CORSOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
