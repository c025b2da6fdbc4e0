// Package api exposes the nearby lookup and the session over HTTP.
package api

import (
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthPath is where the guard sends unauthenticated requests.
const AuthPath = "/auth"

// NewRouter wires the handlers, the guard and the observability endpoints.
// The client address is taken from forwarding headers only when the peer is one of trustedProxies.
func NewRouter(
	handler *Handler,
	sessions *session.Manager,
	gatherer prometheus.Gatherer,
	log *slog.Logger,
	trustedProxies []string,
) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(requestID(), requestLogger(log), gin.Recovery())

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	auth := router.Group(AuthPath)
	auth.GET("", handler.AuthState)
	auth.POST("", handler.Login)
	auth.POST("/logout", handler.Logout)

	guarded := router.Group("/api", RequireSession(sessions, AuthPath))
	guarded.GET("/vets/nearby", handler.Nearby)

	return router, nil
}
