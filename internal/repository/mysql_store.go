package repository

import "database/sql"

var _ Store = (*MySQLStore)(nil)

// MySQLStore bundles the MySQL repos into a single Store.
type MySQLStore struct {
	*ScheduleRepo
	*MagazineRepo
	*ContentSizeRepo
	*LabelRepo
	*CustomerRepo
	*BookingRepo
	*UserRepo
	*TokenRepo
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		ScheduleRepo:    NewScheduleRepo(db),
		MagazineRepo:    NewMagazineRepo(db),
		ContentSizeRepo: NewContentSizeRepo(db),
		LabelRepo:       NewLabelRepo(db),
		CustomerRepo:    NewCustomerRepo(db),
		BookingRepo:     NewBookingRepo(db),
		UserRepo:        NewUserRepo(db),
		TokenRepo:       NewTokenRepo(db),
	}
}
