package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// LabelRepo stores content types and business types in the shared
// `labels` table, told apart by the kind column.
type LabelRepo struct {
	db *sql.DB
}

func NewLabelRepo(db *sql.DB) *LabelRepo { return &LabelRepo{db: db} }

const labelColumns = `id, owner_id, kind, name, is_default, archived, created_at, updated_at`

func scanLabel(sc interface{ Scan(...any) error }) (*model.Label, error) {
	l := new(model.Label)
	if err := sc.Scan(&l.ID, &l.OwnerID, &l.Kind, &l.Name, &l.IsDefault, &l.Archived, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LabelRepo) CreateLabel(ctx context.Context, l *model.Label) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (owner_id, kind, name, is_default, archived) VALUES (?, ?, ?, ?, ?)`,
		l.OwnerID, l.Kind, l.Name, l.IsDefault, l.Archived)
	if err != nil {
		return writeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM labels WHERE id = ?`, l.ID).
		Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *LabelRepo) GetLabel(ctx context.Context, kind model.LabelKind, id, ownerID uint64) (*model.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE id = ? AND owner_id = ? AND kind = ?`, id, ownerID, kind)
	l, err := scanLabel(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *LabelRepo) ListLabels(ctx context.Context, kind model.LabelKind, ownerID uint64, includeArchived bool) ([]*model.Label, error) {
	q := `SELECT ` + labelColumns + ` FROM labels WHERE owner_id = ? AND kind = ?`
	if !includeArchived {
		q += ` AND archived = 0`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY name`, ownerID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLabel writes name and archived flag. Kind and the default flag
// never change after insert.
func (r *LabelRepo) UpdateLabel(ctx context.Context, l *model.Label) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE labels SET name = ?, archived = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ? AND kind = ?`,
		l.Name, l.Archived, l.ID, l.OwnerID, l.Kind)
	if err != nil {
		return writeErr(err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT updated_at FROM labels WHERE id = ?`, l.ID).Scan(&l.UpdatedAt)
}

func (r *LabelRepo) DeleteLabel(ctx context.Context, kind model.LabelKind, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ? AND owner_id = ? AND kind = ?`, id, ownerID, kind)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *LabelRepo) LabelInUse(ctx context.Context, kind model.LabelKind, id, ownerID uint64) (bool, error) {
	if kind == model.BusinessTypeLabel {
		return exists(ctx, r.db, `SELECT 1 FROM customers WHERE business_type_id = ? AND owner_id = ?`, id, ownerID)
	}
	return exists(ctx, r.db,
		`SELECT 1 FROM booking_entries e JOIN bookings b ON b.id = e.booking_id
		 WHERE e.content_type_id = ? AND b.owner_id = ?`, id, ownerID)
}

// UpsertDefaultLabels inserts the names in one statement. A name that
// already exists (compared case-insensitively by the unique key) is only
// flagged as default, so concurrent or repeated seeding converges on the
// same rows.
func (r *LabelRepo) UpsertDefaultLabels(ctx context.Context, kind model.LabelKind, ownerID uint64, names []string) error {
	args := make([]any, 0, len(names)*4)
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := model.NormalizeName(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		args = append(args, ownerID, kind, name, true)
	}
	if len(args) == 0 {
		return nil
	}
	query := `INSERT INTO labels (owner_id, kind, name, is_default) VALUES ` + valuesList(len(args)/4, 4) +
		` ON DUPLICATE KEY UPDATE is_default = 1`
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
