package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// ContentSizeRepo stores content sizes in `content_sizes` and their
// per-magazine prices in `content_size_prices`.
type ContentSizeRepo struct {
	db *sql.DB
}

func NewContentSizeRepo(db *sql.DB) *ContentSizeRepo { return &ContentSizeRepo{db: db} }

const contentSizeColumns = `id, owner_id, description, size, archived, created_at, updated_at`

func scanContentSize(sc interface{ Scan(...any) error }) (*model.ContentSize, error) {
	cs := new(model.ContentSize)
	if err := sc.Scan(&cs.ID, &cs.OwnerID, &cs.Description, &cs.Size, &cs.Archived, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
		return nil, err
	}
	cs.Prices = map[uint64]decimal.Decimal{}
	return cs, nil
}

func (r *ContentSizeRepo) CreateContentSize(ctx context.Context, cs *model.ContentSize) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO content_sizes (owner_id, description, size, archived) VALUES (?, ?, ?, ?)`,
			cs.OwnerID, cs.Description, cs.Size, cs.Archived)
		if err != nil {
			return writeErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		cs.ID = uint64(id)
		if err := insertPricesTx(ctx, tx, cs); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM content_sizes WHERE id = ?`, cs.ID).
			Scan(&cs.CreatedAt, &cs.UpdatedAt)
	})
}

func insertPricesTx(ctx context.Context, tx *sql.Tx, cs *model.ContentSize) error {
	if len(cs.Prices) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(cs.Prices))
	for id := range cs.Prices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	query := `INSERT INTO content_size_prices (content_size_id, magazine_id, price) VALUES ` + valuesList(len(ids), 3)
	args := make([]any, 0, len(ids)*3)
	for _, id := range ids {
		args = append(args, cs.ID, id, cs.Prices[id])
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func loadPrices(ctx context.Context, q queryer, sizes []*model.ContentSize) error {
	if len(sizes) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.ContentSize, len(sizes))
	ids := make([]uint64, 0, len(sizes))
	for _, cs := range sizes {
		byID[cs.ID] = cs
		ids = append(ids, cs.ID)
	}
	rows, err := q.QueryContext(ctx,
		`SELECT content_size_id, magazine_id, price FROM content_size_prices WHERE content_size_id IN (`+inList(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			sizeID, magazineID uint64
			price              decimal.Decimal
		)
		if err := rows.Scan(&sizeID, &magazineID, &price); err != nil {
			return err
		}
		if cs, ok := byID[sizeID]; ok {
			cs.Prices[magazineID] = price
		}
	}
	return rows.Err()
}

func (r *ContentSizeRepo) GetContentSize(ctx context.Context, id, ownerID uint64) (*model.ContentSize, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentSizeColumns+` FROM content_sizes WHERE id = ? AND owner_id = ?`, id, ownerID)
	cs, err := scanContentSize(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := loadPrices(ctx, r.db, []*model.ContentSize{cs}); err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *ContentSizeRepo) ListContentSizes(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.ContentSize, error) {
	q := `SELECT ` + contentSizeColumns + ` FROM content_sizes WHERE owner_id = ?`
	if !includeArchived {
		q += ` AND archived = 0`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY size, description`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ContentSize
	for rows.Next() {
		cs, err := scanContentSize(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadPrices(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContentSize rewrites the row and replaces the price map.
func (r *ContentSizeRepo) UpdateContentSize(ctx context.Context, cs *model.ContentSize) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE content_sizes SET description = ?, size = ?, archived = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND owner_id = ?`,
			cs.Description, cs.Size, cs.Archived, cs.ID, cs.OwnerID)
		if err != nil {
			return writeErr(err)
		}
		if err := mustAffect(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_size_prices WHERE content_size_id = ?`, cs.ID); err != nil {
			return err
		}
		if err := insertPricesTx(ctx, tx, cs); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM content_sizes WHERE id = ?`, cs.ID).
			Scan(&cs.CreatedAt, &cs.UpdatedAt)
	})
}

func (r *ContentSizeRepo) DeleteContentSize(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_sizes WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *ContentSizeRepo) ContentSizeInUse(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db,
		`SELECT 1 FROM booking_entries e JOIN bookings b ON b.id = e.booking_id
		 WHERE e.content_size_id = ? AND b.owner_id = ?`, id, ownerID)
}
