// Package auth issues and checks bearer sessions for email/password
// principals kept in the document store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/logger"
	"github.com/maxaizer/hiring-board/internal/metrics"
	log "github.com/sirupsen/logrus"
	"strings"
	"time"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignUpRequest struct {
	Credentials
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// Grant is what a successful sign-in hands back to the client.
type Grant struct {
	Token     string           `json:"token"`
	Principal models.Principal `json:"principal"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

type principalRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type sessionRecord struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Provider struct {
	store  docstore.Store
	paths  docstore.Paths
	hasher *Hasher
	bus    EventBus.Bus
	ttl    time.Duration
	now    func() time.Time
}

func NewProvider(store docstore.Store, paths docstore.Paths, hasher *Hasher, bus EventBus.Bus,
	ttl time.Duration) (*Provider, error) {

	if ttl <= 0 {
		return nil, errors.New("session ttl must be greater than zero")
	}

	return &Provider{store: store, paths: paths, hasher: hasher, bus: bus, ttl: ttl, now: time.Now}, nil
}

// SignUp registers a principal together with its role profile and opens a
// session for it.
func (p *Provider) SignUp(ctx context.Context, request SignUpRequest) (*Grant, error) {
	request.Email = normalizeEmail(request.Email)
	if err := models.ValidateStruct(request); err != nil {
		return nil, err
	}

	existing, err := p.findPrincipal(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	hash, err := p.hasher.Hash(request.Password)
	if err != nil {
		return nil, err
	}

	doc, err := p.store.Create(ctx, p.paths.Principals(), "", map[string]any{
		"email":        request.Email,
		"passwordHash": hash,
		"createdAt":    docstore.ServerTimestamp,
	})
	if err != nil {
		return nil, storeFailure(models.ErrStoreWrite, err)
	}

	_, err = p.store.Create(ctx, p.paths.Users(), doc.ID, map[string]any{
		"email": request.Email,
		"role":  request.Role,
	})
	if err != nil {
		if rollbackErr := p.store.Delete(ctx, p.paths.Principals(), doc.ID); rollbackErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuth).
				Errorf("failed to remove principal %s after profile write failure: %v", doc.ID, rollbackErr)
		}
		return nil, storeFailure(models.ErrStoreWrite, err)
	}

	return p.openSession(ctx, models.Principal{UID: doc.ID, Email: request.Email})
}

func (p *Provider) SignIn(ctx context.Context, credentials Credentials) (*Grant, error) {
	credentials.Email = normalizeEmail(credentials.Email)

	doc, err := p.findPrincipal(ctx, credentials.Email)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		metrics.SignInsCounter.WithLabelValues("rejected").Inc()
		return nil, models.ErrInvalidCredentials
	}

	var record principalRecord
	if err := doc.Decode(&record); err != nil {
		return nil, storeFailure(models.ErrStoreRead, err)
	}

	ok, err := p.hasher.Verify(credentials.Password, record.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.SignInsCounter.WithLabelValues("rejected").Inc()
		return nil, models.ErrInvalidCredentials
	}

	metrics.SignInsCounter.WithLabelValues("accepted").Inc()
	return p.openSession(ctx, models.Principal{UID: doc.ID, Email: record.Email})
}

// SignOut ends the session behind token. Unknown tokens are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	session, err := p.readSession(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			return nil
		}
		return err
	}

	if err := p.store.Delete(ctx, p.paths.Sessions(), token); err != nil {
		return storeFailure(models.ErrStoreWrite, err)
	}

	p.bus.Publish(events.AuthStateChangedTopic, events.AuthStateChanged{UID: session.UID})
	return nil
}

// Authenticate maps a bearer token to its principal.
func (p *Provider) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	session, err := p.readSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &models.Principal{UID: session.UID, Email: session.Email}, nil
}

// OnAuthStateChanged registers handler for every sign-up, sign-in and
// sign-out. Handlers run synchronously with the call that changed the state.
func (p *Provider) OnAuthStateChanged(handler func(event events.AuthStateChanged)) error {
	return p.bus.Subscribe(events.AuthStateChangedTopic, handler)
}

// RemoveExpiredSessions deletes sessions past their expiry and reports how
// many were removed.
func (p *Provider) RemoveExpiredSessions(ctx context.Context) (int64, error) {
	docs, err := p.store.Find(ctx, p.paths.Sessions(), nil)
	if err != nil {
		return 0, storeFailure(models.ErrStoreRead, err)
	}

	now := p.now()
	var removed int64
	for _, doc := range docs {
		var session sessionRecord
		if err := doc.Decode(&session); err == nil && now.Before(session.ExpiresAt) {
			continue
		}
		if err := p.store.Delete(ctx, p.paths.Sessions(), doc.ID); err != nil {
			return removed, storeFailure(models.ErrStoreWrite, err)
		}
		removed++
	}
	return removed, nil
}

func (p *Provider) openSession(ctx context.Context, principal models.Principal) (*Grant, error) {
	token := uuid.NewString()
	expiresAt := p.now().Add(p.ttl).UTC()

	_, err := p.store.Create(ctx, p.paths.Sessions(), token, map[string]any{
		"uid":       principal.UID,
		"email":     principal.Email,
		"expiresAt": expiresAt,
	})
	if err != nil {
		return nil, storeFailure(models.ErrStoreWrite, err)
	}

	p.bus.Publish(events.AuthStateChangedTopic, events.AuthStateChanged{UID: principal.UID, Principal: &principal})
	return &Grant{Token: token, Principal: principal, ExpiresAt: expiresAt}, nil
}

func (p *Provider) readSession(ctx context.Context, token string) (*sessionRecord, error) {
	if token == "" {
		return nil, models.ErrUnauthenticated
	}

	doc, err := p.store.Get(ctx, p.paths.Sessions(), token)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, storeFailure(models.ErrStoreRead, err)
	}

	var session sessionRecord
	if err := doc.Decode(&session); err != nil {
		return nil, storeFailure(models.ErrStoreRead, err)
	}
	if !p.now().Before(session.ExpiresAt) {
		return nil, models.ErrUnauthenticated
	}
	return &session, nil
}

func (p *Provider) findPrincipal(ctx context.Context, email string) (*docstore.Document, error) {
	docs, err := p.store.Find(ctx, p.paths.Principals(), &docstore.Filter{Field: "email", Value: email})
	if err != nil {
		return nil, storeFailure(models.ErrStoreRead, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storeFailure(kind error, err error) error {
	if errors.Is(err, docstore.ErrUnavailable) {
		kind = models.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %w", kind, err)
}
