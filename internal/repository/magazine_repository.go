package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// MagazineRepo stores magazines in `magazines` and their page overrides in
// `magazine_pages`.
type MagazineRepo struct {
	db *sql.DB
}

func NewMagazineRepo(db *sql.DB) *MagazineRepo { return &MagazineRepo{db: db} }

const magazineColumns = `id, owner_id, name, schedule_id, archived, created_at, updated_at`

func scanMagazine(sc interface{ Scan(...any) error }) (*model.Magazine, error) {
	m := new(model.Magazine)
	if err := sc.Scan(&m.ID, &m.OwnerID, &m.Name, &m.ScheduleID, &m.Archived, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.PageConfigurations = map[string]int{}
	return m, nil
}

func (r *MagazineRepo) CreateMagazine(ctx context.Context, m *model.Magazine) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO magazines (owner_id, name, schedule_id, archived) VALUES (?, ?, ?, ?)`,
			m.OwnerID, m.Name, m.ScheduleID, m.Archived)
		if err != nil {
			return writeErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)
		if err := insertPagesTx(ctx, tx, m); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM magazines WHERE id = ?`, m.ID).
			Scan(&m.CreatedAt, &m.UpdatedAt)
	})
}

func insertPagesTx(ctx context.Context, tx *sql.Tx, m *model.Magazine) error {
	if len(m.PageConfigurations) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.PageConfigurations))
	for name := range m.PageConfigurations {
		names = append(names, name)
	}
	sort.Strings(names)

	query := `INSERT INTO magazine_pages (magazine_id, issue_name, total_pages) VALUES ` + valuesList(len(names), 3)
	args := make([]any, 0, len(names)*3)
	for _, name := range names {
		args = append(args, m.ID, name, m.PageConfigurations[name])
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// loadPages fills PageConfigurations of the given magazines.
func loadPages(ctx context.Context, q queryer, mags []*model.Magazine) error {
	if len(mags) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Magazine, len(mags))
	ids := make([]uint64, 0, len(mags))
	for _, m := range mags {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	rows, err := q.QueryContext(ctx,
		`SELECT magazine_id, issue_name, total_pages FROM magazine_pages WHERE magazine_id IN (`+inList(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    uint64
			issue string
			pages int
		)
		if err := rows.Scan(&id, &issue, &pages); err != nil {
			return err
		}
		if m, ok := byID[id]; ok {
			m.PageConfigurations[issue] = pages
		}
	}
	return rows.Err()
}

func (r *MagazineRepo) GetMagazine(ctx context.Context, id, ownerID uint64) (*model.Magazine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+magazineColumns+` FROM magazines WHERE id = ? AND owner_id = ?`, id, ownerID)
	m, err := scanMagazine(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := loadPages(ctx, r.db, []*model.Magazine{m}); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MagazineRepo) ListMagazines(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Magazine, error) {
	q := `SELECT ` + magazineColumns + ` FROM magazines WHERE owner_id = ?`
	if !includeArchived {
		q += ` AND archived = 0`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Magazine
	for rows.Next() {
		m, err := scanMagazine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadPages(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMagazine rewrites the row and replaces the page overrides.
func (r *MagazineRepo) UpdateMagazine(ctx context.Context, m *model.Magazine) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE magazines SET name = ?, schedule_id = ?, archived = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND owner_id = ?`,
			m.Name, m.ScheduleID, m.Archived, m.ID, m.OwnerID)
		if err != nil {
			return writeErr(err)
		}
		if err := mustAffect(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM magazine_pages WHERE magazine_id = ?`, m.ID); err != nil {
			return err
		}
		if err := insertPagesTx(ctx, tx, m); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM magazines WHERE id = ?`, m.ID).
			Scan(&m.CreatedAt, &m.UpdatedAt)
	})
}

// DeleteMagazine removes the magazine. Page overrides and content size
// prices for it are removed by cascade.
func (r *MagazineRepo) DeleteMagazine(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM magazines WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MagazineRepo) MagazineInUse(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db,
		`SELECT 1 FROM booking_entries e JOIN bookings b ON b.id = e.booking_id
		 WHERE e.magazine_id = ? AND b.owner_id = ?`, id, ownerID)
}
