// Package docstore is a small document database client: named collections
// of JSON documents addressed by id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
)

type serverTimestamp struct{}

// ServerTimestamp can be used as a field value in Create and Update. The
// store replaces it with its own clock at write time.
var ServerTimestamp = serverTimestamp{}

// Filter selects documents whose top-level string field equals Value.
type Filter struct {
	Field string
	Value string
}

type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

type Store interface {
	// Find returns a snapshot of the collection, optionally narrowed by filter.
	Find(ctx context.Context, collection string, filter *Filter) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Create stores a new document. An empty id asks the store to assign
	// one; a given id replaces any document stored under it.
	Create(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Paths builds collection names namespaced by deployment id.
type Paths struct {
	AppID string
}

func (p Paths) JobOpenings() string {
	return "artifacts/" + p.AppID + "/public/data/job_openings"
}

func (p Paths) JobApplications() string {
	return "artifacts/" + p.AppID + "/public/data/job_applications"
}

func (p Paths) Users() string {
	return "users"
}

func (p Paths) Principals() string {
	return "principals"
}

func (p Paths) Sessions() string {
	return "sessions"
}
