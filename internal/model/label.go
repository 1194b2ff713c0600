package model

import "time"

// LabelKind distinguishes the owner-scoped lookup lists that share one
// shape: content types (Advert, Article, ...) and business types.
type LabelKind string

const (
	ContentTypeLabel  LabelKind = "content_type"
	BusinessTypeLabel LabelKind = "business_type"
)

// Label is a row of a lookup list. Default-flagged rows are seeded per
// owner and cannot be deleted.
type Label struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"-"`
	Kind      LabelKind `json:"kind"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
