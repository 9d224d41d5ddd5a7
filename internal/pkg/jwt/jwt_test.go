package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 30*time.Second)
	employeeID := "0190c0de-0000-7000-8000-000000000003"
	p := user.Principal{
		UserID:     "0190c0de-0000-7000-8000-000000000001",
		TenantID:   "0190c0de-0000-7000-8000-000000000002",
		EmployeeID: &employeeID,
		Role:       user.RoleManager,
	}

	token, expiresAt, err := svc.GenerateAccessToken(p, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	got, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGenerateAccessToken_RejectsNonPositiveTTL(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	_, _, err := svc.GenerateAccessToken(user.Principal{UserID: "u", TenantID: "t"}, 0)
	assert.Error(t, err)
}

func TestDecode_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", 0)
	verifier := NewJWTService("secret-b", 0)

	token, _, err := issuer.GenerateAccessToken(user.Principal{UserID: "u", TenantID: "t", Role: user.RoleEmployee}, time.Minute)
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	cases := map[string]struct {
		claims map[string]interface{}
		want   error
	}{
		"refresh token":   {map[string]interface{}{"type": "refresh", "user_id": "u", "company_id": "c"}, user.ErrInvalidToken},
		"missing user":    {map[string]interface{}{"type": "access", "company_id": "c"}, user.ErrInvalidToken},
		"missing company": {map[string]interface{}{"type": "access", "user_id": "u"}, user.ErrCompanyIDRequired},
		"null company":    {map[string]interface{}{"type": "access", "user_id": "u", "company_id": nil}, user.ErrCompanyIDRequired},
	}
	for name, c := range cases {
		_, err := PrincipalFromClaims(c.claims)
		assert.ErrorIs(t, err, c.want, name)
	}
}
