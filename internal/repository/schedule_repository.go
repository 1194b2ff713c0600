package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// ScheduleRepo stores schedules in `schedules` and their issues in
// `issues`. A schedule and its issues are always written together.
type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const issueColumns = `id, schedule_id, name, close_date, sort_order, period_year, period_month, period_seq`

// CreateSchedule inserts the schedule row and all of its issues in one
// transaction, then reads back IDs and timestamps.
func (r *ScheduleRepo) CreateSchedule(ctx context.Context, s *model.Schedule) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO schedules (owner_id, name) VALUES (?, ?)`, s.OwnerID, s.Name)
		if err != nil {
			return writeErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		if err := insertIssuesTx(ctx, tx, s); err != nil {
			return err
		}
		return r.reload(ctx, tx, s)
	})
}

// insertIssuesTx writes the issue list in a single statement. Issues that
// already have an ID keep it.
func insertIssuesTx(ctx context.Context, tx *sql.Tx, s *model.Schedule) error {
	if len(s.Issues) == 0 {
		return nil
	}
	query := `INSERT INTO issues (` + issueColumns + `) VALUES ` + valuesList(len(s.Issues), 8)
	args := make([]any, 0, len(s.Issues)*8)
	for _, is := range s.Issues {
		var id any
		if is.ID != 0 {
			id = is.ID
		}
		args = append(args, id, s.ID, is.Name, is.CloseDate, is.SortOrder, is.Year, is.Month, is.Seq)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return writeErr(err)
}

func (r *ScheduleRepo) reload(ctx context.Context, q queryer, s *model.Schedule) error {
	const sel = `SELECT created_at, updated_at FROM schedules WHERE id = ?`
	if err := q.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	issues, err := loadIssues(ctx, q, `WHERE schedule_id = ?`, s.ID)
	if err != nil {
		return err
	}
	s.Issues = issues[s.ID]
	return nil
}

// loadIssues returns issues grouped by schedule ID, each group ordered by
// sort_order.
func loadIssues(ctx context.Context, q queryer, where string, args ...any) (map[uint64][]model.Issue, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+issueColumns+` FROM issues `+where+` ORDER BY schedule_id, sort_order, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]model.Issue)
	for rows.Next() {
		var is model.Issue
		if err := rows.Scan(&is.ID, &is.ScheduleID, &is.Name, &is.CloseDate, &is.SortOrder, &is.Year, &is.Month, &is.Seq); err != nil {
			return nil, err
		}
		is.CloseDate = is.CloseDate.UTC()
		out[is.ScheduleID] = append(out[is.ScheduleID], is)
	}
	return out, rows.Err()
}

// GetSchedule returns the schedule with its issues if it belongs to the
// owner.
func (r *ScheduleRepo) GetSchedule(ctx context.Context, id, ownerID uint64) (*model.Schedule, error) {
	const q = `SELECT id, owner_id, name, created_at, updated_at FROM schedules WHERE id = ? AND owner_id = ?`
	var s model.Schedule
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	issues, err := loadIssues(ctx, r.db, `WHERE schedule_id = ?`, s.ID)
	if err != nil {
		return nil, err
	}
	s.Issues = issues[s.ID]
	return &s, nil
}

func (r *ScheduleRepo) ListSchedules(ctx context.Context, ownerID uint64) ([]*model.Schedule, error) {
	const q = `SELECT id, owner_id, name, created_at, updated_at FROM schedules WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Schedule
	for rows.Next() {
		s := new(model.Schedule)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	issues, err := loadIssues(ctx, r.db,
		`WHERE schedule_id IN (SELECT id FROM schedules WHERE owner_id = ?)`, ownerID)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		s.Issues = issues[s.ID]
	}
	return out, nil
}

// ReplaceSchedule renames the schedule and swaps its issue list. The old
// rows are removed first so that renames between issues cannot collide on
// the unique name key. Renames reach booking entries and page
// configurations in the same transaction.
func (r *ScheduleRepo) ReplaceSchedule(ctx context.Context, s *model.Schedule) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE schedules SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?`,
			s.Name, s.ID, s.OwnerID)
		if err != nil {
			return writeErr(err)
		}
		if err := mustAffect(res); err != nil {
			return err
		}
		prev, err := loadIssues(ctx, tx, `WHERE schedule_id = ?`, s.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM issues WHERE schedule_id = ?`, s.ID); err != nil {
			return err
		}
		if err := insertIssuesTx(ctx, tx, s); err != nil {
			return err
		}
		renames, removed := IssueChanges(prev[s.ID], s.Issues)
		if err := renameEntryIssuesTx(ctx, tx, s, renames); err != nil {
			return err
		}
		if err := rewritePagesTx(ctx, tx, s, renames, removed); err != nil {
			return err
		}
		return r.reload(ctx, tx, s)
	})
}

// IssueChanges compares an issue list before and after a replace. renames
// maps the old name of every issue that kept its ID under a new name to
// that new name; removed lists the names of issues whose ID is gone.
func IssueChanges(prev, next []model.Issue) (renames map[string]string, removed []string) {
	byID := make(map[uint64]string, len(next))
	for _, is := range next {
		if is.ID != 0 {
			byID[is.ID] = is.Name
		}
	}
	renames = make(map[string]string)
	for _, is := range prev {
		name, ok := byID[is.ID]
		switch {
		case !ok:
			removed = append(removed, is.Name)
		case name != is.Name:
			renames[is.Name] = name
		}
	}
	return renames, removed
}

// renameEntryIssuesTx applies renames to the entries of every magazine
// bound to the schedule. A single CASE per column lets two issues swap
// names.
func renameEntryIssuesTx(ctx context.Context, tx *sql.Tx, s *model.Schedule, renames map[string]string) error {
	if len(renames) == 0 {
		return nil
	}
	olds := make([]string, 0, len(renames))
	for old := range renames {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	caseOf := func(col string) (string, []any) {
		var b strings.Builder
		args := make([]any, 0, 2*len(olds))
		b.WriteString("CASE " + col)
		for _, old := range olds {
			b.WriteString(" WHEN ? THEN ?")
			args = append(args, old, renames[old])
		}
		b.WriteString(" ELSE " + col + " END")
		return b.String(), args
	}
	startExpr, args := caseOf("e.start_issue")
	finishExpr, finishArgs := caseOf("e.finish_issue")
	args = append(append(args, finishArgs...), s.ID, s.OwnerID)

	_, err := tx.ExecContext(ctx,
		`UPDATE booking_entries e JOIN magazines m ON m.id = e.magazine_id
		 SET e.start_issue = `+startExpr+`, e.finish_issue = `+finishExpr+`
		 WHERE m.schedule_id = ? AND m.owner_id = ?`, args...)
	return err
}

// rewritePagesTx renames and prunes the page configurations of magazines
// bound to the schedule. Rows are rewritten rather than updated in place
// because a swap would collide on the primary key.
func rewritePagesTx(ctx context.Context, tx *sql.Tx, s *model.Schedule, renames map[string]string, removed []string) error {
	if len(renames) == 0 && len(removed) == 0 {
		return nil
	}
	gone := make(map[string]bool, len(removed))
	for _, name := range removed {
		gone[name] = true
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT p.magazine_id, p.issue_name, p.total_pages FROM magazine_pages p
		 JOIN magazines m ON m.id = p.magazine_id
		 WHERE m.schedule_id = ? AND m.owner_id = ?`, s.ID, s.OwnerID)
	if err != nil {
		return err
	}
	pages := make(map[uint64]map[string]int)
	for rows.Next() {
		var (
			magazineID uint64
			name       string
			total      int
		)
		if err := rows.Scan(&magazineID, &name, &total); err != nil {
			rows.Close()
			return err
		}
		if gone[name] {
			continue
		}
		if to, ok := renames[name]; ok {
			name = to
		}
		if pages[magazineID] == nil {
			pages[magazineID] = make(map[string]int)
		}
		pages[magazineID][name] = total
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx,
		`DELETE p FROM magazine_pages p JOIN magazines m ON m.id = p.magazine_id
		 WHERE m.schedule_id = ? AND m.owner_id = ?`, s.ID, s.OwnerID); err != nil {
		return err
	}
	for magazineID, cfg := range pages {
		if err := insertPagesTx(ctx, tx, &model.Magazine{ID: magazineID, PageConfigurations: cfg}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSchedule removes the schedule; issues go with it by cascade.
func (r *ScheduleRepo) DeleteSchedule(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *ScheduleRepo) ScheduleInUse(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db, `SELECT 1 FROM magazines WHERE schedule_id = ? AND owner_id = ?`, id, ownerID)
}

func (r *ScheduleRepo) BookedIssues(ctx context.Context, id, ownerID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.start_issue FROM booking_entries e JOIN magazines m ON m.id = e.magazine_id
		 WHERE m.schedule_id = ? AND m.owner_id = ?
		 UNION
		 SELECT e.finish_issue FROM booking_entries e JOIN magazines m ON m.id = e.magazine_id
		 WHERE m.schedule_id = ? AND m.owner_id = ? AND e.finish_issue <> ''`,
		id, ownerID, id, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
