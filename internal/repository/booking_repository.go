package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// BookingRepo stores bookings in `bookings` and their entries in
// `booking_entries`. A booking and its entries are always written in one
// transaction.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const (
	bookingColumns = `b.id, b.owner_id, b.customer_id, b.additional_charges, b.charge_mode, COALESCE(b.notes, ''), b.total, b.created_at, b.updated_at`
	entryColumns   = `id, booking_id, magazine_id, content_size_id, content_type_id, list_price, discount_percentage,
		discount_value, start_issue, finish_issue, is_ongoing, additional_charge, net_value`
)

func scanBooking(sc interface{ Scan(...any) error }) (*model.Booking, error) {
	b := new(model.Booking)
	err := sc.Scan(&b.ID, &b.OwnerID, &b.CustomerID, &b.AdditionalCharges, &b.ChargeMode, &b.Notes, &b.Total,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Entries = []model.BookingEntry{}
	return b, nil
}

func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (owner_id, customer_id, additional_charges, charge_mode, notes, total)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			b.OwnerID, b.CustomerID, b.AdditionalCharges, b.ChargeMode, b.Notes, b.Total)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = uint64(id)
		if err := insertEntriesTx(ctx, tx, b); err != nil {
			return err
		}
		return reloadBooking(ctx, tx, b)
	})
}

// insertEntriesTx writes all entries of b in one statement, keeping their
// order in the position column.
func insertEntriesTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if len(b.Entries) == 0 {
		return nil
	}
	const cols = 13
	query := `INSERT INTO booking_entries (booking_id, position, magazine_id, content_size_id, content_type_id,
		list_price, discount_percentage, discount_value, start_issue, finish_issue, is_ongoing,
		additional_charge, net_value) VALUES ` + valuesList(len(b.Entries), cols)
	args := make([]any, 0, len(b.Entries)*cols)
	for i, e := range b.Entries {
		args = append(args, b.ID, i, e.MagazineID, e.ContentSizeID, e.ContentTypeID,
			e.ListPrice, e.DiscountPercentage, e.DiscountValue, e.StartIssue, e.FinishIssue, e.IsOngoing,
			e.AdditionalCharge, e.NetValue)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// reloadBooking reads back timestamps and entry IDs after a write.
func reloadBooking(ctx context.Context, q queryer, b *model.Booking) error {
	if err := q.QueryRowContext(ctx, `SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	entries, err := loadEntries(ctx, q, []uint64{b.ID})
	if err != nil {
		return err
	}
	b.Entries = entries[b.ID]
	return nil
}

func loadEntries(ctx context.Context, q queryer, bookingIDs []uint64) (map[uint64][]model.BookingEntry, error) {
	out := make(map[uint64][]model.BookingEntry, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM booking_entries WHERE booking_id IN (`+inList(len(bookingIDs))+`)
		 ORDER BY booking_id, position`,
		idArgs(bookingIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e model.BookingEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.MagazineID, &e.ContentSizeID, &e.ContentTypeID,
			&e.ListPrice, &e.DiscountPercentage, &e.DiscountValue, &e.StartIssue, &e.FinishIssue, &e.IsOngoing,
			&e.AdditionalCharge, &e.NetValue); err != nil {
			return nil, err
		}
		out[e.BookingID] = append(out[e.BookingID], e)
	}
	return out, rows.Err()
}

func (r *BookingRepo) GetBooking(ctx context.Context, id, ownerID uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ? AND b.owner_id = ?`, id, ownerID)
	b, err := scanBooking(row)
	if err != nil {
		return nil, notFound(err)
	}
	entries, err := loadEntries(ctx, r.db, []uint64{b.ID})
	if err != nil {
		return nil, err
	}
	if e, ok := entries[b.ID]; ok {
		b.Entries = e
	}
	return b, nil
}

// ListBookings returns the owner's bookings matching f in creation order.
func (r *BookingRepo) ListBookings(ctx context.Context, ownerID uint64, f BookingFilter) ([]*model.Booking, error) {
	where := []string{"b.owner_id = ?"}
	args := []any{ownerID}
	if f.CustomerID != 0 {
		where = append(where, "b.customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.MagazineID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM booking_entries e WHERE e.booking_id = b.id AND e.magazine_id = ?)")
		args = append(args, f.MagazineID)
	}
	if f.From != nil {
		where = append(where, "b.created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		where = append(where, "b.created_at <= ?")
		args = append(args, f.To.UTC())
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings b WHERE ` + strings.Join(where, " AND ") + ` ORDER BY b.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []*model.Booking
		ids []uint64
	)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := loadEntries(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range out {
		if e, ok := entries[b.ID]; ok {
			b.Entries = e
		}
	}
	return out, nil
}

// ReplaceBooking rewrites the header and swaps the entry set. The row is
// locked first so concurrent replaces of one booking serialise.
func (r *BookingRepo) ReplaceBooking(ctx context.Context, b *model.Booking) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var id uint64
		err := tx.QueryRowContext(ctx, `SELECT id FROM bookings WHERE id = ? AND owner_id = ? FOR UPDATE`, b.ID, b.OwnerID).Scan(&id)
		if err != nil {
			return notFound(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE bookings SET customer_id = ?, additional_charges = ?, charge_mode = ?, notes = ?, total = ?,
			 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			b.CustomerID, b.AdditionalCharges, b.ChargeMode, b.Notes, b.Total, b.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM booking_entries WHERE booking_id = ?`, b.ID); err != nil {
			return err
		}
		if err := insertEntriesTx(ctx, tx, b); err != nil {
			return err
		}
		return reloadBooking(ctx, tx, b)
	})
}

// DeleteBooking removes the booking; entries go with it by cascade.
func (r *BookingRepo) DeleteBooking(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
