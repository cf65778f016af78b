package repositories

import (
	"context"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type userRepository interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// CachedUsers keeps resolved profiles for a short while. Entries are dropped
// whenever the owning principal signs in or out.
type CachedUsers struct {
	repo  userRepository
	cache *gocache.Cache
}

func NewCachedUsers(repo userRepository) *CachedUsers {
	return &CachedUsers{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c *CachedUsers) GetByID(ctx context.Context, uid string) (*models.User, error) {
	if value, found := c.cache.Get(uid); found {
		user := value.(models.User)
		return &user, nil
	}

	user, err := c.repo.GetByID(ctx, uid)
	if user != nil {
		c.cache.Set(uid, *user, gocache.DefaultExpiration)
	}

	return user, err
}

func (c *CachedUsers) Evict(uid string) {
	c.cache.Delete(uid)
}

// OnAuthStateChanged is meant to be subscribed to events.AuthStateChangedTopic.
func (c *CachedUsers) OnAuthStateChanged(event events.AuthStateChanged) {
	c.Evict(event.UID)
}
