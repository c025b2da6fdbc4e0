package location

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// Locator is the platform capability that reports the caller's current position.
// Implementations must honour ctx cancellation.
type Locator interface {
	Locate(ctx context.Context, opts Options) (*models.Coordinates, error)
}

// Options tune a single position request.
type Options struct {
	HighAccuracy bool          // HighAccuracy asks the platform for its most precise fix.
	Timeout      time.Duration // Timeout bounds the whole request.
	MaximumAge   time.Duration // MaximumAge accepts a cached fix up to this age.
}

// DefaultOptions are used by the resolver for every request.
var DefaultOptions = Options{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaximumAge:   5 * time.Minute,
}

// DefaultCoordinates is the New Delhi city center, used whenever no position is available.
var DefaultCoordinates = models.Coordinates{Latitude: 28.6139, Longitude: 77.2090}

// Common locator errors.
var (
	ErrUnavailable      = errors.New("location capability is not available")
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrRemoteClient is returned by locators that can only locate this host.
	ErrRemoteClient = fmt.Errorf("%w: only this host can be located", ErrUnavailable)
)

type clientIPKey struct{}

// WithClientIP records the address of the remote client the position is requested for.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP. An empty result means the
// position of the local host is wanted.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// isRemoteClient reports whether ip names a client other than this host.
func isRemoteClient(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && !parsed.IsLoopback()
}
