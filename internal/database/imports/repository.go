// Package imports keeps the ledger of books whose clippings were exported.
package imports

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/orgclips/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts the row for a new bibid. For a known bibid the stored row
// takes the new values, keeps its creation time and counts one more run.
func (r *Repository) Record(record *entities.ImportRecord) error {
	if record.Bibid == "" {
		return fmt.Errorf("import record without bibid")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.ImportRecord
		err := tx.Where("bibid = ?", record.Bibid).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record.Runs = 1
			return tx.Create(record).Error
		}
		if err != nil {
			return err
		}

		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.Runs = existing.Runs + 1
		return tx.Save(record).Error
	})
}

func (r *Repository) GetByBibid(bibid string) (*entities.ImportRecord, error) {
	var record entities.ImportRecord
	if err := r.db.Where("bibid = ?", bibid).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns the most recently updated records first. A limit of zero
// or less returns every record.
func (r *Repository) List(limit int) ([]entities.ImportRecord, error) {
	var records []entities.ImportRecord
	query := r.db.Order("updated_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}
