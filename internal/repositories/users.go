package repositories

import (
	"context"
	"errors"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"time"
)

// Users reads the role profiles written at sign-up.
type Users struct {
	store docstore.Store
	paths docstore.Paths
}

func NewUsersRepository(store docstore.Store, paths docstore.Paths) *Users {
	return &Users{store: store, paths: paths}
}

// GetByID returns nil without an error when the principal has no profile.
func (repo *Users) GetByID(ctx context.Context, uid string) (*models.User, error) {
	defer observe("users.get", time.Now())

	doc, err := repo.store.Get(ctx, repo.paths.Users(), uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, readError("get user", err)
	}

	var user models.User
	if err := doc.Decode(&user); err != nil {
		return nil, readError("decode user", err)
	}
	user.ID = doc.ID
	return &user, nil
}
