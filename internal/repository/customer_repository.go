package repository

import (
	"context"
	"database/sql"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// CustomerRepo stores advertisers in `customers`.
type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = `id, owner_id, name, contact_name, email, phone, business_type_id, archived, created_at, updated_at`

func scanCustomer(sc interface{ Scan(...any) error }) (*model.Customer, error) {
	c := new(model.Customer)
	err := sc.Scan(&c.ID, &c.OwnerID, &c.Name, &c.ContactName, &c.Email, &c.Phone,
		&c.BusinessTypeID, &c.Archived, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepo) CreateCustomer(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (owner_id, name, contact_name, email, phone, business_type_id, archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.OwnerID, c.Name, c.ContactName, c.Email, c.Phone, c.BusinessTypeID, c.Archived)
	if err != nil {
		return writeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM customers WHERE id = ?`, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepo) GetCustomer(ctx context.Context, id, ownerID uint64) (*model.Customer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ? AND owner_id = ?`, id, ownerID)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *CustomerRepo) ListCustomers(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = ?`
	if !includeArchived {
		q += ` AND archived = 0`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepo) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers
		 SET name = ?, contact_name = ?, email = ?, phone = ?, business_type_id = ?, archived = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ?`,
		c.Name, c.ContactName, c.Email, c.Phone, c.BusinessTypeID, c.Archived, c.ID, c.OwnerID)
	if err != nil {
		return writeErr(err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT updated_at FROM customers WHERE id = ?`, c.ID).Scan(&c.UpdatedAt)
}

func (r *CustomerRepo) DeleteCustomer(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *CustomerRepo) CustomerInUse(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db, `SELECT 1 FROM bookings WHERE customer_id = ? AND owner_id = ?`, id, ownerID)
}
