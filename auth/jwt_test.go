package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_Verify(t *testing.T) {
	verifier := NewJWT("secret")

	signed, err := verifier.Sign("user-1")
	require.NoError(t, err)

	numeric, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 7}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noClaim, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	otherKey, err := NewJWT("other").Sign("user-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "valid", token: signed, want: "user-1"},
		{name: "numeric user id", token: numeric, want: "7"},
		{name: "empty", token: "", wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
		{name: "wrong key", token: otherKey, wantErr: true},
		{name: "missing claim", token: noClaim, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
