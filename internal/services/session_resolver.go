package services

import (
	"context"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// SessionResolver turns an authenticated principal into a role-bearing
// session. A principal without a user profile never gets a role.
type SessionResolver struct {
	users UserRepository
}

func NewSessionResolver(users UserRepository) *SessionResolver {
	return &SessionResolver{users: users}
}

func (r *SessionResolver) Resolve(ctx context.Context, principal models.Principal) (*models.Session, error) {
	user, err := r.users.GetByID(ctx, principal.UID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to resolve session of %s: %v", principal.UID, err)
		return nil, err
	}

	if user == nil {
		log.Warnf("principal %s has no user profile", principal.UID)
		return nil, errors.Wrapf(models.ErrForbidden, "no profile for principal %s", principal.UID)
	}

	if !user.Role.IsValid() {
		return nil, errors.Wrapf(models.ErrForbidden, "principal %s has unknown role %q", principal.UID, user.Role)
	}

	email := user.Email
	if email == "" {
		email = principal.Email
	}

	return &models.Session{UID: principal.UID, Email: email, Role: user.Role}, nil
}
