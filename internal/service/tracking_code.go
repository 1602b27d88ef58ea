package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracking codes are kind-prefixed so resolution never needs a dual probe for
// codes this service generated. The suffix is random rather than
// time-derived; two intakes in the same millisecond cannot collide.
const (
	trackingPrefixOrder   = "ORD-"
	trackingPrefixBooking = "BK-"

	trackingSuffixLen   = 10
	trackingGenAttempts = 5
	trackingClaimTTL    = time.Hour
)

func trackingPrefix(kind models.EntityKind) string {
	switch kind {
	case models.KindOrder:
		return trackingPrefixOrder
	case models.KindBooking:
		return trackingPrefixBooking
	default:
		return ""
	}
}

func randomTrackingCode(kind models.EntityKind) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return trackingPrefix(kind) + raw[:trackingSuffixLen]
}

// generateTrackingCode produces a unique tracking code, claiming it in the
// cache so a concurrent intake cannot pick the same one. If the cache is
// unreachable the code is returned unclaimed; the unique index on the tracking
// column is the backstop.
func generateTrackingCode(ctx context.Context, cache TrackingCache, kind models.EntityKind) (string, error) {
	for i := 0; i < trackingGenAttempts; i++ {
		code := randomTrackingCode(kind)

		claimed, err := cache.ClaimTrackingCode(ctx, code, trackingClaimTTL)
		if err != nil {
			util.GetLogger().Warn("Tracking code claim unavailable, proceeding unclaimed",
				zap.String("code", code), zap.Error(err))
			return code, nil
		}
		if claimed {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique tracking code for %s after %d attempts",
		kind, trackingGenAttempts)
}

// newBookingReference builds the human-facing booking reference shown to
// customers alongside the tracking code.
func newBookingReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "BKG-" + raw[:8]
}
