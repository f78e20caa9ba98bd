package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	id := uuid.New()

	token, err := svc.Generate(id, "m@society.test")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "m@society.test", claims.Email)
	assert.Equal(t, id.String(), claims.Subject)

	gotID, gotEmail, err := svc.Validator()(token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "m@society.test", gotEmail)
}

func TestJWT_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	token, err := svc.Generate(uuid.New(), "m@society.test")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWTService("other", 1).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewJWTService("test-secret", 1)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		expired, err := old.Generate(uuid.New(), "m@society.test")
		require.NoError(t, err)
		_, err = svc.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: uuid.New()})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
