package usecases

import (
	"time"

	"helpdesk/internal/domain/permission"
)

type PasswordVerifier interface {
	Verify(password, hash string) error
	// VerifyDummy spends the same time as Verify when no user matched.
	VerifyDummy(password string) error
}

type SessionTokenIssuer interface {
	Generate(principal *permission.Principal) (string, time.Time, error)
}
