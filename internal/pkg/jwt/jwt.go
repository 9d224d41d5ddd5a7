package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	// GenerateAccessToken signs an access token carrying p. Used by tooling and tests;
	// production tokens are issued by the identity service with the same secret.
	GenerateAccessToken(p user.Principal, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, skew time.Duration) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(skew)),
		now:       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal, ttl time.Duration) (token string, expiresAt int64, err error) {
	if ttl <= 0 {
		return "", 0, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	expiresAt = j.now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"user_id":     p.UserID,
		"company_id":  p.TenantID,
		"employee_id": returnValueOrNil(p.EmployeeID),
		"role":        string(p.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims builds the caller identity from verified access-token claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != TokenTypeAccess {
		return user.Principal{}, user.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, user.ErrInvalidToken
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return user.Principal{}, user.ErrCompanyIDRequired
	}

	role, _ := claims["role"].(string)

	p := user.Principal{
		UserID:   userID,
		TenantID: companyID,
		Role:     user.Role(role),
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}
	return p, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
