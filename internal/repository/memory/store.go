// Package memory is an in-process implementation of repository.Store.
// It backs the service tests and the STORE_DRIVER=memory development mode.
// Rows are copied on the way in and out so callers never share state with
// the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type refreshRow struct {
	userID    uint64
	expiresAt time.Time
	revoked   bool
}

type Store struct {
	mu     sync.RWMutex
	nextID uint64

	schedules    map[uint64]*model.Schedule
	magazines    map[uint64]*model.Magazine
	contentSizes map[uint64]*model.ContentSize
	labels       map[uint64]*model.Label
	customers    map[uint64]*model.Customer
	bookings     map[uint64]*model.Booking

	users  map[uint64]model.User
	tokens map[string]*refreshRow

	now func() time.Time
}

func New() *Store {
	return &Store{
		schedules:    make(map[uint64]*model.Schedule),
		magazines:    make(map[uint64]*model.Magazine),
		contentSizes: make(map[uint64]*model.ContentSize),
		labels:       make(map[uint64]*model.Label),
		customers:    make(map[uint64]*model.Customer),
		bookings:     make(map[uint64]*model.Booking),
		users:        make(map[uint64]model.User),
		tokens:       make(map[string]*refreshRow),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source used for created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

func sameName(a, b string) bool { return model.NormalizeName(a) == model.NormalizeName(b) }

// ---- schedules ----

func cloneSchedule(in *model.Schedule) *model.Schedule {
	out := *in
	out.Issues = append([]model.Issue(nil), in.Issues...)
	return &out
}

func (s *Store) scheduleNameTaken(ownerID, exceptID uint64, name string) bool {
	for _, sc := range s.schedules {
		if sc.OwnerID == ownerID && sc.ID != exceptID && sameName(sc.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) assignIssueIDs(sc *model.Schedule) {
	for i := range sc.Issues {
		sc.Issues[i].ScheduleID = sc.ID
		if sc.Issues[i].ID == 0 {
			sc.Issues[i].ID = s.id()
		}
	}
}

func (s *Store) CreateSchedule(_ context.Context, sc *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduleNameTaken(sc.OwnerID, 0, sc.Name) {
		return repository.ErrDuplicate
	}
	sc.ID = s.id()
	sc.CreatedAt, sc.UpdatedAt = s.now(), s.now()
	s.assignIssueIDs(sc)
	s.schedules[sc.ID] = cloneSchedule(sc)
	return nil
}

func (s *Store) GetSchedule(_ context.Context, id, ownerID uint64) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok || sc.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneSchedule(sc), nil
}

func (s *Store) ListSchedules(_ context.Context, ownerID uint64) ([]*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Schedule
	for _, sc := range s.schedules {
		if sc.OwnerID == ownerID {
			out = append(out, cloneSchedule(sc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ReplaceSchedule(_ context.Context, sc *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.schedules[sc.ID]
	if !ok || cur.OwnerID != sc.OwnerID {
		return repository.ErrNotFound
	}
	if s.scheduleNameTaken(sc.OwnerID, sc.ID, sc.Name) {
		return repository.ErrDuplicate
	}
	sc.CreatedAt, sc.UpdatedAt = cur.CreatedAt, s.now()
	s.assignIssueIDs(sc)
	renames, removed := repository.IssueChanges(cur.Issues, sc.Issues)
	s.carryIssueChanges(sc, renames, removed)
	s.schedules[sc.ID] = cloneSchedule(sc)
	return nil
}

// carryIssueChanges renames issues in the entries and page configurations
// of magazines bound to sc and drops pages of removed issues.
func (s *Store) carryIssueChanges(sc *model.Schedule, renames map[string]string, removed []string) {
	if len(renames) == 0 && len(removed) == 0 {
		return
	}
	gone := make(map[string]bool, len(removed))
	for _, name := range removed {
		gone[name] = true
	}
	bound := make(map[uint64]bool)
	for _, m := range s.magazines {
		if m.OwnerID != sc.OwnerID || m.ScheduleID == nil || *m.ScheduleID != sc.ID {
			continue
		}
		bound[m.ID] = true
		pages := make(map[string]int, len(m.PageConfigurations))
		for name, total := range m.PageConfigurations {
			if gone[name] {
				continue
			}
			if to, ok := renames[name]; ok {
				name = to
			}
			pages[name] = total
		}
		m.PageConfigurations = pages
	}
	rename := func(name string) string {
		if to, ok := renames[name]; ok {
			return to
		}
		return name
	}
	for _, b := range s.bookings {
		for i := range b.Entries {
			e := &b.Entries[i]
			if bound[e.MagazineID] {
				e.StartIssue = rename(e.StartIssue)
				if e.FinishIssue != "" {
					e.FinishIssue = rename(e.FinishIssue)
				}
			}
		}
	}
}

func (s *Store) DeleteSchedule(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.schedules[id]
	if !ok || sc.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.schedules, id)
	return nil
}

func (s *Store) ScheduleInUse(_ context.Context, id, ownerID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.magazines {
		if m.OwnerID == ownerID && m.ScheduleID != nil && *m.ScheduleID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) BookedIssues(_ context.Context, id, ownerID uint64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bound := make(map[uint64]bool)
	for _, m := range s.magazines {
		if m.OwnerID == ownerID && m.ScheduleID != nil && *m.ScheduleID == id {
			bound[m.ID] = true
		}
	}
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, b := range s.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		for _, e := range b.Entries {
			if bound[e.MagazineID] {
				add(e.StartIssue)
				add(e.FinishIssue)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---- magazines ----

func cloneMagazine(in *model.Magazine) *model.Magazine {
	out := *in
	if in.ScheduleID != nil {
		v := *in.ScheduleID
		out.ScheduleID = &v
	}
	out.PageConfigurations = make(map[string]int, len(in.PageConfigurations))
	for k, v := range in.PageConfigurations {
		out.PageConfigurations[k] = v
	}
	return &out
}

func (s *Store) magazineNameTaken(ownerID, exceptID uint64, name string) bool {
	for _, m := range s.magazines {
		if m.OwnerID == ownerID && m.ID != exceptID && sameName(m.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateMagazine(_ context.Context, m *model.Magazine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.magazineNameTaken(m.OwnerID, 0, m.Name) {
		return repository.ErrDuplicate
	}
	m.ID = s.id()
	m.CreatedAt, m.UpdatedAt = s.now(), s.now()
	s.magazines[m.ID] = cloneMagazine(m)
	return nil
}

func (s *Store) GetMagazine(_ context.Context, id, ownerID uint64) (*model.Magazine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.magazines[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneMagazine(m), nil
}

func (s *Store) ListMagazines(_ context.Context, ownerID uint64, includeArchived bool) ([]*model.Magazine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Magazine
	for _, m := range s.magazines {
		if m.OwnerID == ownerID && (includeArchived || !m.Archived) {
			out = append(out, cloneMagazine(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateMagazine(_ context.Context, m *model.Magazine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.magazines[m.ID]
	if !ok || cur.OwnerID != m.OwnerID {
		return repository.ErrNotFound
	}
	if s.magazineNameTaken(m.OwnerID, m.ID, m.Name) {
		return repository.ErrDuplicate
	}
	m.CreatedAt, m.UpdatedAt = cur.CreatedAt, s.now()
	s.magazines[m.ID] = cloneMagazine(m)
	return nil
}

func (s *Store) DeleteMagazine(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.magazines[id]
	if !ok || m.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.magazines, id)
	for _, cs := range s.contentSizes {
		delete(cs.Prices, id)
	}
	return nil
}

func (s *Store) MagazineInUse(_ context.Context, id, ownerID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.anyEntry(ownerID, func(e model.BookingEntry) bool { return e.MagazineID == id }), nil
}

func (s *Store) anyEntry(ownerID uint64, match func(model.BookingEntry) bool) bool {
	for _, b := range s.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		for _, e := range b.Entries {
			if match(e) {
				return true
			}
		}
	}
	return false
}

// ---- content sizes ----

func cloneContentSize(in *model.ContentSize) *model.ContentSize {
	out := *in
	out.Prices = make(map[uint64]decimal.Decimal, len(in.Prices))
	for k, v := range in.Prices {
		out.Prices[k] = v
	}
	return &out
}

func (s *Store) CreateContentSize(_ context.Context, cs *model.ContentSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs.ID = s.id()
	cs.CreatedAt, cs.UpdatedAt = s.now(), s.now()
	s.contentSizes[cs.ID] = cloneContentSize(cs)
	return nil
}

func (s *Store) GetContentSize(_ context.Context, id, ownerID uint64) (*model.ContentSize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.contentSizes[id]
	if !ok || cs.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneContentSize(cs), nil
}

func (s *Store) ListContentSizes(_ context.Context, ownerID uint64, includeArchived bool) ([]*model.ContentSize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.ContentSize
	for _, cs := range s.contentSizes {
		if cs.OwnerID == ownerID && (includeArchived || !cs.Archived) {
			out = append(out, cloneContentSize(cs))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateContentSize(_ context.Context, cs *model.ContentSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.contentSizes[cs.ID]
	if !ok || cur.OwnerID != cs.OwnerID {
		return repository.ErrNotFound
	}
	cs.CreatedAt, cs.UpdatedAt = cur.CreatedAt, s.now()
	s.contentSizes[cs.ID] = cloneContentSize(cs)
	return nil
}

func (s *Store) DeleteContentSize(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.contentSizes[id]
	if !ok || cs.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.contentSizes, id)
	return nil
}

func (s *Store) ContentSizeInUse(_ context.Context, id, ownerID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.anyEntry(ownerID, func(e model.BookingEntry) bool { return e.ContentSizeID == id }), nil
}

// ---- labels ----

func (s *Store) labelNameTaken(l *model.Label) bool {
	for _, x := range s.labels {
		if x.OwnerID == l.OwnerID && x.Kind == l.Kind && x.ID != l.ID && sameName(x.Name, l.Name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateLabel(_ context.Context, l *model.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.labelNameTaken(l) {
		return repository.ErrDuplicate
	}
	l.ID = s.id()
	l.CreatedAt, l.UpdatedAt = s.now(), s.now()
	cp := *l
	s.labels[l.ID] = &cp
	return nil
}

func (s *Store) GetLabel(_ context.Context, kind model.LabelKind, id, ownerID uint64) (*model.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.labels[id]
	if !ok || l.OwnerID != ownerID || l.Kind != kind {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Store) ListLabels(_ context.Context, kind model.LabelKind, ownerID uint64, includeArchived bool) ([]*model.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Label
	for _, l := range s.labels {
		if l.OwnerID == ownerID && l.Kind == kind && (includeArchived || !l.Archived) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateLabel(_ context.Context, l *model.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.labels[l.ID]
	if !ok || cur.OwnerID != l.OwnerID || cur.Kind != l.Kind {
		return repository.ErrNotFound
	}
	if s.labelNameTaken(l) {
		return repository.ErrDuplicate
	}
	l.CreatedAt, l.UpdatedAt = cur.CreatedAt, s.now()
	cp := *l
	s.labels[l.ID] = &cp
	return nil
}

func (s *Store) DeleteLabel(_ context.Context, kind model.LabelKind, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.labels[id]
	if !ok || l.OwnerID != ownerID || l.Kind != kind {
		return repository.ErrNotFound
	}
	delete(s.labels, id)
	return nil
}

func (s *Store) LabelInUse(_ context.Context, kind model.LabelKind, id, ownerID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case model.ContentTypeLabel:
		return s.anyEntry(ownerID, func(e model.BookingEntry) bool { return e.ContentTypeID == id }), nil
	case model.BusinessTypeLabel:
		for _, c := range s.customers {
			if c.OwnerID == ownerID && c.BusinessTypeID != nil && *c.BusinessTypeID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store) UpsertDefaultLabels(_ context.Context, kind model.LabelKind, ownerID uint64, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var found *model.Label
		for _, l := range s.labels {
			if l.OwnerID == ownerID && l.Kind == kind && sameName(l.Name, name) {
				found = l
				break
			}
		}
		if found != nil {
			found.IsDefault = true
			continue
		}
		id := s.id()
		s.labels[id] = &model.Label{
			ID: id, OwnerID: ownerID, Kind: kind, Name: name, IsDefault: true,
			CreatedAt: s.now(), UpdatedAt: s.now(),
		}
	}
	return nil
}

// ---- customers ----

func cloneCustomer(in *model.Customer) *model.Customer {
	out := *in
	if in.BusinessTypeID != nil {
		v := *in.BusinessTypeID
		out.BusinessTypeID = &v
	}
	return &out
}

func (s *Store) customerNameTaken(c *model.Customer) bool {
	for _, x := range s.customers {
		if x.OwnerID == c.OwnerID && x.ID != c.ID && sameName(x.Name, c.Name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.customerNameTaken(c) {
		return repository.ErrDuplicate
	}
	c.ID = s.id()
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	s.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (s *Store) GetCustomer(_ context.Context, id, ownerID uint64) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneCustomer(c), nil
}

func (s *Store) ListCustomers(_ context.Context, ownerID uint64, includeArchived bool) ([]*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Customer
	for _, c := range s.customers {
		if c.OwnerID == ownerID && (includeArchived || !c.Archived) {
			out = append(out, cloneCustomer(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.customers[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return repository.ErrNotFound
	}
	if s.customerNameTaken(c) {
		return repository.ErrDuplicate
	}
	c.CreatedAt, c.UpdatedAt = cur.CreatedAt, s.now()
	s.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) CustomerInUse(_ context.Context, id, ownerID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.OwnerID == ownerID && b.CustomerID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- bookings ----

func cloneBooking(in *model.Booking) *model.Booking {
	out := *in
	out.Entries = append([]model.BookingEntry(nil), in.Entries...)
	return &out
}

func (s *Store) assignEntryIDs(b *model.Booking) {
	for i := range b.Entries {
		b.Entries[i].ID = s.id()
		b.Entries[i].BookingID = b.ID
	}
}

func (s *Store) CreateBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.id()
	b.CreatedAt, b.UpdatedAt = s.now(), s.now()
	s.assignEntryIDs(b)
	s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (s *Store) GetBooking(_ context.Context, id, ownerID uint64) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok || b.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (s *Store) ListBookings(_ context.Context, ownerID uint64, f repository.BookingFilter) ([]*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Booking
	for _, b := range s.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		if f.CustomerID != 0 && b.CustomerID != f.CustomerID {
			continue
		}
		if f.From != nil && b.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && b.CreatedAt.After(*f.To) {
			continue
		}
		if f.MagazineID != 0 && !hasMagazine(b, f.MagazineID) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasMagazine(b *model.Booking, magazineID uint64) bool {
	for _, e := range b.Entries {
		if e.MagazineID == magazineID {
			return true
		}
	}
	return false
}

func (s *Store) ReplaceBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.bookings[b.ID]
	if !ok || cur.OwnerID != b.OwnerID {
		return repository.ErrNotFound
	}
	b.CreatedAt, b.UpdatedAt = cur.CreatedAt, s.now()
	s.assignEntryIDs(b)
	s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (s *Store) DeleteBooking(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// ---- users and tokens ----

func (s *Store) CreateUser(_ context.Context, email, passwordHash, role string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	id := s.id()
	s.users[id] = model.User{
		ID: id, Email: email, PasswordHash: passwordHash, Role: role, IsActive: true,
		CreatedAt: s.now(), UpdatedAt: s.now(),
	}
	return id, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[tokenHash] = &refreshRow{userID: userID, expiresAt: exp}
	return nil
}

func (s *Store) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.tokens[tokenHash]
	if !ok || row.revoked || s.now().After(row.expiresAt) {
		return 0, repository.ErrInvalidRefresh
	}
	return row.userID, nil
}

func (s *Store) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.tokens[tokenHash]; ok {
		row.revoked = true
	}
	return nil
}

func (s *Store) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.tokens {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}
