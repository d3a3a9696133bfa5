package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Record is the MySQL row behind SQLStore.
type Record struct {
	ID        uint64    `gorm:"primaryKey"`
	Source    string    `gorm:"size:32;not null"`
	UserID    string    `gorm:"size:32;not null;index"`
	Username  string    `gorm:"size:64"`
	Verdict   string    `gorm:"size:16;not null;index"`
	Rating    string    `gorm:"size:255"`
	Publisher string    `gorm:"size:255"`
	URL       string    `gorm:"type:text"`
	Statement string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Record) TableName() string { return "fact_checks" }

// SQLStore persists entries in the fact_checks table. Rows are only ever inserted.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore migrates the fact_checks table and returns a store over it.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("audit: sql store needs a database")
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("audit: migrate fact_checks: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

func (s *SQLStore) Append(ctx context.Context, e Entry) (Entry, error) {
	e.Timestamp = s.now().UTC()
	rec := Record{
		Source:    e.Source,
		UserID:    e.UserID,
		Username:  e.Username,
		Verdict:   e.Verdict,
		Rating:    e.Rating,
		Publisher: e.Publisher,
		URL:       e.URL,
		Statement: e.Statement,
		CreatedAt: e.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Entry{}, fmt.Errorf("audit: insert: %w", err)
	}
	return e, nil
}

func (s *SQLStore) ReadAll(ctx context.Context) ([]Entry, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{
			Source:    r.Source,
			UserID:    r.UserID,
			Username:  r.Username,
			Verdict:   r.Verdict,
			Rating:    r.Rating,
			Publisher: r.Publisher,
			URL:       r.URL,
			Statement: r.Statement,
			Timestamp: r.CreatedAt,
		})
	}
	return entries, nil
}
