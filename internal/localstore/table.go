package localstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var byPrimaryKey = clause.OrderByColumn{ //nolint:gochecknoglobals
	Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey},
}

// ListAll returns every row of T ordered by primary key.
func ListAll[T Record](ctx context.Context, s *Store) ([]T, error) {
	rows := make([]T, 0)

	err := Use[T](ctx, s, func(db *gorm.DB) error {
		if err := db.Order(byPrimaryKey).Find(&rows).Error; err != nil {
			var zero T

			return errors.Wrapf(err, "list %s", zero.TableName())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Count returns the number of rows of T.
func Count[T Record](ctx context.Context, s *Store) (int64, error) {
	var n int64

	err := Use[T](ctx, s, func(db *gorm.DB) error {
		if err := db.Model(new(T)).Count(&n).Error; err != nil {
			var zero T

			return errors.Wrapf(err, "count %s", zero.TableName())
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

// InsertAll validates and inserts items one row at a time and writes the assigned
// primary keys back into items. It returns the number of persisted rows. When that
// number is below len(items) the error is a *PartialInsertError and the persisted
// rows are kept.
func InsertAll[T Record](ctx context.Context, s *Store, items []T) (int, error) {
	var inserted int

	err := Use[T](ctx, s, func(db *gorm.DB) error {
		var zero T

		table := zero.TableName()

		for i := range items {
			err := ctx.Err()
			if err == nil {
				err = s.validate.StructCtx(ctx, items[i])
			}

			if err == nil {
				err = db.Create(&items[i]).Error
			}

			if err != nil {
				log.Warn().Err(err).
					Str("table", table).
					Int("inserted", i).
					Int("requested", len(items)).
					Msg("bulk insert stopped")

				return &PartialInsertError{Table: table, Inserted: i, Requested: len(items), Err: err}
			}

			inserted++
		}

		log.Debug().Str("table", table).Int("inserted", inserted).Msg("bulk insert done")

		return nil
	})

	return inserted, err
}

// Table is a typed view on the rows of T.
type Table[T Record] struct {
	store *Store
}

// NewTable returns the view of T on s.
func NewTable[T Record](s *Store) Table[T] {
	return Table[T]{store: s}
}

// List returns every row.
func (t Table[T]) List(ctx context.Context) ([]T, error) {
	return ListAll[T](ctx, t.store)
}

// Count returns the number of rows.
func (t Table[T]) Count(ctx context.Context) (int64, error) {
	return Count[T](ctx, t.store)
}

// InsertAll inserts items, see the package level InsertAll.
func (t Table[T]) InsertAll(ctx context.Context, items []T) (int, error) {
	return InsertAll(ctx, t.store, items)
}
