package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/biztime"
	apperrors "helpdesk/internal/shared/errors"
)

const issuer = "helpdesk"

// Claims is the session payload. The subject is the user ID.
type Claims struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
	DepartmentID   *uint    `json:"department_id,omitempty"`
	DepartmentName string   `json:"department_name,omitempty"`
	jwt.RegisteredClaims
}

// Principal rebuilds the authenticated actor from the claims.
func (c *Claims) Principal() (*permission.Principal, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return &permission.Principal{
		UserID:         uint(id),
		Email:          c.Email,
		Name:           c.Name,
		Roles:          c.Roles,
		Permissions:    c.Permissions,
		DepartmentID:   c.DepartmentID,
		DepartmentName: c.DepartmentName,
	}, nil
}

type JWTService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate signs a session token for principal and returns its expiry.
func (s *JWTService) Generate(principal *permission.Principal) (string, time.Time, error) {
	now := biztime.NowUTC()
	exp := now.Add(s.ttl)

	claims := &Claims{
		Email:          principal.Email,
		Name:           principal.Name,
		Roles:          principal.Roles,
		Permissions:    principal.Permissions,
		DepartmentID:   principal.DepartmentID,
		DepartmentName: principal.DepartmentName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(principal.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, exp, nil
}

// Verify parses tokenString and returns auth errors suitable for a 401.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpiredError()
		}
		return nil, apperrors.NewTokenInvalidError()
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.NewTokenInvalidError()
}

// TTL returns the session lifetime.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}
