// Package sqlstore implements store.Store on a relational database through
// gorm. Every document is a JSON blob keyed by (collection, id), so patches
// are applied by rewriting the decoded document.
package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/internal/store"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// document is the row model of the documents table.
type document struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       string `gorm:"type:longtext;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string {
	return "documents"
}

// Store is a gorm-backed document store.
type Store struct {
	db *gorm.DB
}

// Open connects with the "mysql" or "sqlite" driver and migrates the
// documents table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// each sqlite connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db)
}

// New wraps an open gorm connection and migrates the documents table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

type snapshot struct {
	id   string
	data []byte
}

func (s snapshot) ID() string { return s.id }

func (s snapshot) DataTo(dst any) error {
	return json.Unmarshal(s.data, dst)
}

func (s *Store) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	m, err := encode(doc)
	if err != nil {
		return fmt.Errorf("sqlstore encode %s: %w", collection, err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	row := document{Collection: collection, ID: id, Data: string(data)}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("sqlstore insert %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Snapshot, error) {
	var row document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore get %s/%s: %w", collection, id, err)
	}
	return snapshot{id: row.ID, data: []byte(row.Data)}, nil
}

func (s *Store) List(ctx context.Context, collection string, order ...store.Order) ([]store.Snapshot, error) {
	var rows []document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlstore list %s: %w", collection, err)
	}

	type keyed struct {
		snap   snapshot
		fields map[string]any
	}
	items := make([]keyed, 0, len(rows))
	for _, row := range rows {
		k := keyed{snap: snapshot{id: row.ID, data: []byte(row.Data)}}
		if len(order) > 0 {
			_ = json.Unmarshal(k.snap.data, &k.fields)
		}
		items = append(items, k)
	}

	if len(order) > 0 {
		sort.SliceStable(items, func(i, j int) bool {
			for _, o := range order {
				c := compareValues(items[i].fields[o.Field], items[j].fields[o.Field])
				if c == 0 {
					continue
				}
				if o.Direction == store.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	out := make([]store.Snapshot, 0, len(items))
	for _, it := range items {
		out = append(out, it.snap)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, p *patch.Patch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", collection, id).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return fmt.Errorf("sqlstore update %s/%s: %w", collection, id, err)
		}

		m := map[string]any{}
		if err := json.Unmarshal([]byte(row.Data), &m); err != nil {
			return fmt.Errorf("sqlstore decode %s/%s: %w", collection, id, err)
		}
		p.ApplyTo(m)

		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return tx.Model(&document{}).
			Where("collection = ? AND id = ?", collection, id).
			Update("data", string(data)).Error
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&document{}).Error; err != nil {
		return fmt.Errorf("sqlstore delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// encode turns a tagged struct into its JSON object form without the id.
func encode(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "id")
	return m, nil
}

// compareValues orders decoded JSON values. Strings that parse as RFC3339
// compare as instants; missing values sort first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareOrdered(boolInt(av), boolInt(bv))
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aerr := time.Parse(time.RFC3339Nano, av)
			bt, berr := time.Parse(time.RFC3339Nano, bv)
			if aerr == nil && berr == nil {
				return at.Compare(bt)
			}
			return compareOrdered(av, bv)
		}
	}
	return compareOrdered(fmt.Sprint(a), fmt.Sprint(b))
}

func compareOrdered[T int | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
