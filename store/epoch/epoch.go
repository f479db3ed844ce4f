package epoch

import (
	"context"

	"moneymarket/core"

	"github.com/fox-one/pkg/store/db"
)

type epochStore struct {
	db *db.DB
}

// New new epoch record store
func New(db *db.DB) core.IEpochStore {
	return &epochStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.EpochRecord{})
		if err := tx.AutoMigrate(core.EpochRecord{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *epochStore) Create(ctx context.Context, tx *db.DB, record *core.EpochRecord) error {
	return tx.Update().Where("trace_id=?", record.TraceID).FirstOrCreate(record).Error
}

func (s *epochStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.EpochRecord, error) {
	var records []*core.EpochRecord
	if err := s.db.View().Where("id > ?", fromID).Limit(limit).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
