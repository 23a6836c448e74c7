package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour, nil)

	token, err := issuer.Issue(42, "a@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.ID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestIssuer_RejectsExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issuer := NewIssuer("secret", time.Hour, clock)

	token, err := issuer.Issue(1, "a@example.com")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = issuer.Parse(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	token, err := NewIssuer("other", time.Hour, nil).Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour, nil).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour, nil).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewIssuer("secret", time.Hour, nil).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secr3t!pw")
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pw", hash)
	assert.True(t, CheckPassword(hash, "Secr3t!pw"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Secr3t!pw", true},
		{"Aa1@aaaa", true},
		{"short1!A", true},
		{"Aa1@aaa", false},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!!", false},
		{"NoSpecial11", false},
		{"Has Space1!", false},
		{"Ünicode1!a", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestNewVerificationToken(t *testing.T) {
	now := time.Now()
	token, expires := NewVerificationToken(now, time.Hour)

	assert.Len(t, token, 36)
	assert.Equal(t, 4, strings.Count(token, "-"))
	assert.Equal(t, now.Add(time.Hour), expires)

	other, _ := NewVerificationToken(now, time.Hour)
	assert.NotEqual(t, token, other)
}
