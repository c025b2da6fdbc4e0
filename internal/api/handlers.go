package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/vetscout/internal/finder"
	"github.com/UnknownOlympus/vetscout/internal/location"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/search"
	"github.com/UnknownOlympus/vetscout/internal/session"
	"github.com/gin-gonic/gin"
)

var (
	ErrPartialLocation = errors.New("latitude and longitude must be given together")
	ErrInvalidLocation = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
)

// NearbyFinder runs a nearby lookup.
type NearbyFinder interface {
	FindNearby(ctx context.Context, userLocation *models.Coordinates) (finder.Result, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	finder   NearbyFinder
	sessions *session.Manager
	pinger   Pinger
	log      *slog.Logger
}

// NewHandler creates the HTTP handlers. pinger may be nil when nothing needs a health check.
func NewHandler(finder NearbyFinder, sessions *session.Manager, pinger Pinger, log *slog.Logger) *Handler {
	return &Handler{finder: finder, sessions: sessions, pinger: pinger, log: log}
}

type loginRequest struct {
	Token  string `json:"token"  binding:"required"`
	UserID string `json:"userId"`
}

type authResponse struct {
	models.AuthState
	From string `json:"from"`
}

type nearbyResponse struct {
	Source      finder.Source      `json:"source"`
	Location    models.Coordinates `json:"location"`
	Vets        []models.Vet       `json:"vets"`
	RemoteError string             `json:"remoteError,omitempty"`
}

// AuthState reports the session of the calling client and where a login will return to.
func (h *Handler) AuthState(c *gin.Context) {
	state := h.sessions.State(c.Request.Context(), Credential(c))
	c.JSON(http.StatusOK, authResponse{AuthState: state, From: RequestedPath(c)})
}

// Login stores the credential pair, hands the token back as a cookie and sends
// the user back to the guarded page.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := h.sessions.Login(c.Request.Context(), req.Token, req.UserID); err != nil {
		h.log.ErrorContext(c.Request.Context(), "Failed to log in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store session"})
		return
	}

	setTokenCookie(c, req.Token, 0)
	c.Redirect(http.StatusSeeOther, RequestedPath(c))
}

// Logout ends the session of the calling client only.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), Credential(c)); err != nil {
		h.log.ErrorContext(c.Request.Context(), "Failed to log out", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}

	setTokenCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Nearby returns the clinics near the given or resolved location.
func (h *Handler) Nearby(c *gin.Context) {
	userLocation, err := parseLocation(c.Query("latitude"), c.Query("longitude"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := location.WithClientIP(c.Request.Context(), c.ClientIP())
	current, _ := CurrentSession(c)

	result, err := h.finder.FindNearby(ctx, userLocation)
	if err != nil {
		h.log.ErrorContext(ctx, "Nearby lookup failed", "user_id", current.UserID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no clinic data available"})
		return
	}

	resp := nearbyResponse{Source: result.Source, Location: result.Location, Vets: result.Vets}
	if result.RemoteErr != nil {
		h.log.WarnContext(ctx, "Serving fallback clinics",
			"user_id", current.UserID, "error", result.RemoteErr)
		resp.RemoteError = remoteReason(result.RemoteErr)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Health(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			h.log.WarnContext(c.Request.Context(), "Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

// remoteReason names the class of a remote search failure without exposing upstream detail.
func remoteReason(err error) string {
	var statusErr *search.StatusError
	switch {
	case errors.Is(err, search.ErrEmptyResult):
		return "no_results"
	case errors.As(err, &statusErr):
		return "remote_status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unreachable"
	}
}

// parseLocation returns nil when neither coordinate is given.
func parseLocation(rawLat, rawLon string) (*models.Coordinates, error) {
	if rawLat == "" && rawLon == "" {
		return nil, nil //nolint:nilnil
	}
	if rawLat == "" || rawLon == "" {
		return nil, ErrPartialLocation
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, ErrInvalidLocation
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return nil, ErrInvalidLocation
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidLocation
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
