package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_Create(t *testing.T) {
	f := newFixture(t)
	sc := f.monthly(t)

	assert.NotZero(t, sc.ID)
	require.Len(t, sc.Issues, 2)
	assert.Equal(t, 2026, sc.Issues[0].Year)
	assert.Equal(t, 1, sc.Issues[0].Month)
	assert.Equal(t, 1, sc.Issues[1].SortOrder)
}

func TestScheduleService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.monthly(t)

	tests := []struct {
		name   string
		sched  string
		issues []IssueInput
		want   error
	}{
		{name: "no issues", sched: "Empty", issues: nil, want: ErrEmptySchedule},
		{
			name:  "duplicate issue name",
			sched: "Dup",
			issues: []IssueInput{
				{Name: "Jan26", CloseDate: day(2026, 1, 1)},
				{Name: " jan26", CloseDate: day(2026, 1, 2)},
			},
			want: ErrDuplicateIssue,
		},
		{name: "missing close date", sched: "NoDate", issues: []IssueInput{{Name: "Jan26"}}, want: ErrValidation},
		{name: "unparseable without period", sched: "Season", issues: []IssueInput{{Name: "Spring", CloseDate: day(2026, 3, 1)}}, want: ErrValidation},
		{name: "duplicate schedule name", sched: "monthly", issues: []IssueInput{{Name: "Mar26", CloseDate: day(2026, 3, 1)}}, want: ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.schedules.Create(ctx, ownerID, tt.sched, tt.issues)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScheduleService_CreateWithExplicitPeriod(t *testing.T) {
	f := newFixture(t)
	res, err := f.schedules.Create(context.Background(), ownerID, "Seasons", []IssueInput{
		{Name: "Spring", CloseDate: day(2026, 3, 1), Year: 2026, Month: 3},
		{Name: "Summer", CloseDate: day(2026, 6, 1), Year: 2026, Month: 6},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestScheduleService_OrderWarning(t *testing.T) {
	f := newFixture(t)
	res, err := f.schedules.Create(context.Background(), ownerID, "Odd", []IssueInput{
		{Name: "Mar26", CloseDate: day(2026, 3, 1)},
		{Name: "Feb26", CloseDate: day(2026, 2, 1)},
	})
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestScheduleService_UpdateClosedIssues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sc := f.monthly(t) // Jan26 closed on 2025-12-20, now is 2025-12-25

	t.Run("renaming a closed issue fails", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{ID: sc.Issues[0].ID, Name: "January 2026", CloseDate: day(2025, 12, 20)},
			{Name: "Feb26", CloseDate: day(2026, 1, 20)},
		})
		assert.ErrorIs(t, err, ErrIssueClosed)
	})

	t.Run("removing a closed issue fails", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{Name: "Feb26", CloseDate: day(2026, 1, 20)},
		})
		assert.ErrorIs(t, err, ErrIssueClosed)
	})

	t.Run("adding a past issue fails", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{Name: "Dec25", CloseDate: day(2025, 11, 20)},
			{Name: "Jan26", CloseDate: day(2025, 12, 20)},
			{Name: "Feb26", CloseDate: day(2026, 1, 20)},
		})
		assert.ErrorIs(t, err, ErrIssueClosed)
	})

	t.Run("open issues can change and new ones can be added", func(t *testing.T) {
		res, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly edition", []IssueInput{
			{Name: "Jan26", CloseDate: day(2025, 12, 20)},
			{Name: "Feb26", CloseDate: day(2026, 1, 22)},
			{Name: "Mar26", CloseDate: day(2026, 2, 20)},
		})
		require.NoError(t, err)
		assert.Equal(t, "Monthly edition", res.Schedule.Name)
		require.Len(t, res.Schedule.Issues, 3)
		assert.Equal(t, sc.Issues[0].ID, res.Schedule.Issues[0].ID)
		assert.Equal(t, sc.Issues[1].ID, res.Schedule.Issues[1].ID)
	})

	t.Run("unknown issue id", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{ID: 99999, Name: "Jan26", CloseDate: day(2025, 12, 20)},
		})
		assert.ErrorIs(t, err, ErrUnknownIssue)
	})
}

func TestScheduleService_BookedIssues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	sc := f.monthly(t)
	m := f.magazine(t, "Local", sc)
	_, err := f.magazines.SetPageBudget(ctx, ownerID, m.ID, "Feb26", 40)
	require.NoError(t, err)
	quarter := f.contentSize(t, "Quarter page", "0.25", prices{m.ID: dec("100")})
	c := f.customer(t, "Bakery")
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: c.ID, Entries: []EntryInput{
		{MagazineID: m.ID, ContentSizeID: quarter.ID, ContentTypeID: f.contentType(t, "Advert"), StartIssue: "Feb26"},
	}})
	require.NoError(t, err)

	t.Run("removing a booked issue fails", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{ID: sc.Issues[0].ID, Name: "Jan26", CloseDate: day(2025, 12, 20)},
			{Name: "Mar26", CloseDate: day(2026, 2, 20)},
		})
		assert.ErrorIs(t, err, ErrIssueInUse)
		assert.Equal(t, KindProtected, KindOf(err))
	})

	t.Run("renaming a booked issue by id carries the new name", func(t *testing.T) {
		_, err := f.schedules.Update(ctx, ownerID, sc.ID, "Monthly", []IssueInput{
			{ID: sc.Issues[0].ID, Name: "Jan26", CloseDate: day(2025, 12, 20)},
			{ID: sc.Issues[1].ID, Name: "February special", CloseDate: day(2026, 1, 20), Year: 2026, Month: 2},
		})
		require.NoError(t, err)

		stored, err := f.bookings.Get(ctx, ownerID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "February special", stored.Entries[0].StartIssue)

		mag, err := f.magazines.Get(ctx, ownerID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"February special": 40}, mag.PageConfigurations)

		got, err := f.reports.CurrentIssueBreakdown(ctx, ownerID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "February special", got.Issue)
		assert.Equal(t, 40, got.TotalPages)
		assert.True(t, got.BookedPages.Equal(dec("0.25")), "booked %s", got.BookedPages)
	})
}

func TestScheduleService_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sc := f.monthly(t)
	m := f.magazine(t, "Local", sc)

	err := f.schedules.Delete(ctx, ownerID, sc.ID)
	assert.ErrorIs(t, err, ErrScheduleInUse)
	assert.Equal(t, KindProtected, KindOf(err))

	_, err = f.magazines.Bind(ctx, ownerID, m.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.schedules.Delete(ctx, ownerID, sc.ID))

	_, err = f.schedules.Get(ctx, ownerID, sc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleService_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	sc := f.monthly(t)

	_, err := f.schedules.Get(context.Background(), ownerID+1, sc.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestScheduleService_CurrentIssue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sc := f.monthly(t)

	cur, err := f.schedules.CurrentIssue(ctx, ownerID, []uint64{sc.ID})
	require.NoError(t, err)
	assert.Equal(t, "Feb26", cur.Name)

	f.now = day(2026, 2, 1)
	_, err = f.schedules.CurrentIssue(ctx, ownerID, nil)
	assert.ErrorIs(t, err, ErrNoFutureIssue)
}
