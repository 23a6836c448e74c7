package auth

import (
	"time"

	"github.com/google/uuid"
)

// NewVerificationToken returns a random single-use token and its expiry,
// used for account activation and password reset links.
func NewVerificationToken(now time.Time, ttl time.Duration) (string, time.Time) {
	return uuid.NewString(), now.Add(ttl)
}
