package state

import (
	"context"

	"moneymarket/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type stateStore struct {
	db *db.DB
}

// New new state store
func New(db *db.DB) core.IStateStore {
	return &stateStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.State{})
		if err := tx.AutoMigrate(core.State{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *stateStore) Create(ctx context.Context, tx *db.DB, state *core.State) error {
	return tx.Update().Where("market_id=?", state.MarketID).FirstOrCreate(state).Error
}

func (s *stateStore) Find(ctx context.Context, marketID uint64) (*core.State, error) {
	var state core.State
	if err := s.db.View().Where("market_id=?", marketID).First(&state).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrStateNotFound
		}

		return nil, err
	}

	return &state, nil
}

// Update optimistic write: every accrual-touching operation goes through
// here, so a stale version never overwrites a newer ledger.
func (s *stateStore) Update(ctx context.Context, tx *db.DB, state *core.State) error {
	version := state.Version
	state.Version++
	return tx.Update().Model(core.State{}).
		Where("market_id=? and version=?", state.MarketID, version).
		Update(state).Error
}
