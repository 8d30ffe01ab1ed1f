package dbrepository

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgx/v5"
)

const rotationKey = "currentDecimal"

// RotationStore persists the decimal-suffix cursor in the rotation_state
// key-value table. Implements verification.RotationStore.
type RotationStore struct {
	storage DBStorage
	min     int
}

func NewRotationStore(storage DBStorage, min int) *RotationStore {
	return &RotationStore{
		storage: storage,
		min:     min,
	}
}

//go:embed sql/select_rotation.sql
var selectRotationQuery string

func (rs *RotationStore) LoadSuffix(ctx context.Context) (int, error) {
	var suffix int
	err := rs.storage.QueryValue(ctx, selectRotationQuery, []any{rotationKey}, []any{&suffix})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return rs.min, nil
		default:
			return 0, handleSQLError(err)
		}
	}
	return suffix, nil
}

//go:embed sql/upsert_rotation.sql
var upsertRotationQuery string

func (rs *RotationStore) SaveSuffix(ctx context.Context, suffix int) error {
	_, err := rs.storage.Exec(ctx, upsertRotationQuery, rotationKey, suffix)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}
