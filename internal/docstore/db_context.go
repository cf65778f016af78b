package docstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type document struct {
	Collection string `gorm:"primaryKey;size:255"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string {
	return "documents"
}

func (d document) toDocument() Document {
	return Document{ID: d.ID, Data: []byte(d.Data), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// DbContext keeps every collection in a single documents table. SQLite is
// used unless the connection string is a postgres URL.
type DbContext struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(dialector(connectionString), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Error),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db, now: time.Now}, nil
}

func dialector(connectionString string) gorm.Dialector {
	if strings.HasPrefix(connectionString, "postgres://") || strings.HasPrefix(connectionString, "postgresql://") {
		return postgres.Open(connectionString)
	}
	return sqlite.Open(connectionString)
}

func (c *DbContext) Migrate() error {
	if err := c.DB.AutoMigrate(document{}); err != nil {
		return fmt.Errorf("failed to migrate document entity: %w", err)
	}

	if err := c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_documents_collection_created ON documents (collection, created_at)").
		Error; err != nil {
		return fmt.Errorf("failed to create documents index: %w", err)
	}

	return nil
}

func (c *DbContext) Find(ctx context.Context, collection string, filter *Filter) ([]Document, error) {
	query := c.DB.WithContext(ctx).Where("collection = ?", collection)
	if filter != nil {
		switch c.DB.Dialector.Name() {
		case "postgres":
			query = query.Where("(data::jsonb ->> ?) = ?", filter.Field, filter.Value)
		default:
			query = query.Where("json_extract(data, ?) = ?", "$."+filter.Field, filter.Value)
		}
	}

	var records []document
	if err := query.Order("created_at, id").Find(&records).Error; err != nil {
		return nil, classify(err)
	}

	docs := make([]Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, record.toDocument())
	}
	return docs, nil
}

func (c *DbContext) Get(ctx context.Context, collection, id string) (*Document, error) {
	var record document
	err := c.DB.WithContext(ctx).First(&record, "collection = ? AND id = ?", collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	doc := record.toDocument()
	return &doc, nil
}

func (c *DbContext) Create(ctx context.Context, collection, id string, fields map[string]any) (*Document, error) {
	if id == "" {
		id = uuid.NewString()
	}

	data, err := mergeFields(nil, fields, c.now)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	record := document{Collection: collection, ID: id, Data: string(data), CreatedAt: now, UpdatedAt: now}
	err = c.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return nil, classify(err)
	}

	doc := record.toDocument()
	return &doc, nil
}

func (c *DbContext) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record document
		if err := tx.First(&record, "collection = ? AND id = ?", collection, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		data, err := mergeFields([]byte(record.Data), fields, c.now)
		if err != nil {
			return err
		}

		return tx.Model(&document{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{
				"data":       string(data),
				"updated_at": c.now().UTC(),
			}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return classify(err)
}

func (c *DbContext) Delete(ctx context.Context, collection, id string) error {
	err := c.DB.WithContext(ctx).Delete(&document{}, "collection = ? AND id = ?", collection, id).Error
	return classify(err)
}

func (c *DbContext) Ping(ctx context.Context) error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}
	return classify(db.PingContext(ctx))
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

// classify marks connectivity failures with ErrUnavailable and keeps the cause.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "database is closed") ||
		strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
