// Package session is the credential collaborator: given a bearer token it
// yields the caller identity, or reports that the caller is unauthenticated.
// Session issuance itself lives outside this system.
package session

import (
	"errors"

	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

// Identity is the resolved caller.
type Identity struct {
	UserID   uint
	Nickname string
	Role     string
}

// HasRole reports whether the identity satisfies a role gate. Admins pass
// every gate.
func (i *Identity) HasRole(role string) bool {
	return i.Role == role || i.Role == models.RoleAdmin
}

// Oracle resolves request credentials to an identity.
type Oracle interface {
	Identify(token string) (*Identity, error)
}

// DatabaseOracle resolves tokens against the user table.
type DatabaseOracle struct {
	db *models.Database
}

func NewDatabaseOracle(db *models.Database) *DatabaseOracle {
	return &DatabaseOracle{db: db}
}

// Identify returns the identity behind token, or an unauthenticated error.
func (o *DatabaseOracle) Identify(token string) (*Identity, error) {
	if token == "" {
		return nil, errs.Unauthenticated("missing credentials")
	}
	user, err := o.db.GetUserByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Unauthenticated("unknown credentials")
		}
		return nil, errs.Internal(err)
	}
	return &Identity{UserID: user.ID, Nickname: user.Nickname, Role: user.Role}, nil
}
