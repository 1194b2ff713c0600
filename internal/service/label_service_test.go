package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

func TestLabelService_SeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.labels.SeedDefaults(ctx, ownerID))
	require.NoError(t, f.labels.SeedDefaults(ctx, ownerID))

	types, err := f.labels.List(ctx, ownerID, model.ContentTypeLabel, true)
	require.NoError(t, err)
	require.Len(t, types, 2)
	for _, l := range types {
		assert.True(t, l.IsDefault)
	}

	business, err := f.labels.List(ctx, ownerID, model.BusinessTypeLabel, true)
	require.NoError(t, err)
	assert.Len(t, business, 1)
}

func TestLabelService_SeedFlagsExistingRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l, err := f.labels.Create(ctx, ownerID, model.ContentTypeLabel, "advert")
	require.NoError(t, err)
	require.False(t, l.IsDefault)

	require.NoError(t, f.labels.SeedDefaults(ctx, ownerID))

	got, err := f.labels.Get(ctx, ownerID, model.ContentTypeLabel, l.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestLabelService_DeleteDefaultIsProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	advert := f.contentType(t, "Advert")

	err := f.labels.Delete(ctx, ownerID, model.ContentTypeLabel, advert)
	assert.ErrorIs(t, err, ErrProtected)
	assert.Equal(t, KindProtected, KindOf(err))
}

func TestLabelService_DeleteUnreferenced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l, err := f.labels.Create(ctx, ownerID, model.ContentTypeLabel, "Advertorial")
	require.NoError(t, err)

	require.NoError(t, f.labels.Delete(ctx, ownerID, model.ContentTypeLabel, l.ID))
	_, err = f.labels.Get(ctx, ownerID, model.ContentTypeLabel, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLabelService_DeleteReferencedBusinessType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l, err := f.labels.Create(ctx, ownerID, model.BusinessTypeLabel, "Hospitality")
	require.NoError(t, err)
	_, err = f.customers.Create(ctx, ownerID, CustomerInput{Name: "Hotel", BusinessTypeID: &l.ID})
	require.NoError(t, err)

	err = f.labels.Delete(ctx, ownerID, model.BusinessTypeLabel, l.ID)
	assert.ErrorIs(t, err, ErrProtected)
}

func TestLabelService_KindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l, err := f.labels.Create(ctx, ownerID, model.BusinessTypeLabel, "Retail partner")
	require.NoError(t, err)

	_, err = f.labels.Get(ctx, ownerID, model.ContentTypeLabel, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.labels.List(ctx, ownerID, "colour", false)
	assert.ErrorIs(t, err, ErrValidation)
}
