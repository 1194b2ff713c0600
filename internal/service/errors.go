package service

import (
	"errors"
	"fmt"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// Kind is the failure category of a service error. Handlers map kinds to
// HTTP status codes.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindDuplicate     Kind = "DUPLICATE"
	KindProtected     Kind = "PROTECTED"
	KindUnknownIssue  Kind = "UNKNOWN_ISSUE"
	KindInvalidRange  Kind = "INVALID_RANGE"
	KindPriceNotFound Kind = "PRICE_NOT_FOUND"
	KindIssueClosed   Kind = "ISSUE_CLOSED"
	KindNoFutureIssue Kind = "NO_FUTURE_ISSUE"
)

// Error is a typed business failure. Two errors match under errors.Is
// when their codes are equal, so callers can test against the sentinels
// below while the returned value carries a specific message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors. Use errors.Is to test for them.
var (
	ErrValidation      = &Error{Kind: KindValidation, Code: "VALIDATION"}
	ErrEmptySchedule   = &Error{Kind: KindValidation, Code: "EMPTY_SCHEDULE", Message: "a schedule needs at least one issue"}
	ErrNotFound        = &Error{Kind: KindNotFound, Code: "NOT_FOUND"}
	ErrDuplicateName   = &Error{Kind: KindDuplicate, Code: "DUPLICATE_NAME"}
	ErrDuplicateIssue  = &Error{Kind: KindDuplicate, Code: "DUPLICATE_ISSUE_NAME"}
	ErrProtected       = &Error{Kind: KindProtected, Code: "PROTECTED"}
	ErrScheduleInUse   = &Error{Kind: KindProtected, Code: "SCHEDULE_IN_USE", Message: "schedule is bound to a magazine"}
	ErrMagazineInUse   = &Error{Kind: KindProtected, Code: "MAGAZINE_IN_USE", Message: "magazine has booking entries"}
	ErrIssueInUse      = &Error{Kind: KindProtected, Code: "ISSUE_IN_USE", Message: "issue is referenced by booking entries"}
	ErrUnknownIssue    = &Error{Kind: KindUnknownIssue, Code: "UNKNOWN_ISSUE"}
	ErrInvalidRange    = &Error{Kind: KindInvalidRange, Code: "INVALID_RANGE"}
	ErrPriceNotFound   = &Error{Kind: KindPriceNotFound, Code: "PRICE_NOT_FOUND"}
	ErrIssueClosed     = &Error{Kind: KindIssueClosed, Code: "ISSUE_CLOSED"}
	ErrNoFutureIssue   = &Error{Kind: KindNoFutureIssue, Code: "NO_FUTURE_ISSUE", Message: "every issue has closed"}
	ErrInvalidCreds    = &Error{Kind: KindValidation, Code: "INVALID_CREDENTIALS", Message: "invalid credentials"}
	ErrEmailRegistered = &Error{Kind: KindDuplicate, Code: "EMAIL_EXISTS", Message: "email already exists"}
)

// withf returns a copy of the sentinel carrying a specific message.
func (e *Error) withf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a service error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// storeErr translates repository sentinels into service errors and wraps
// everything else with the failing operation.
func storeErr(op string, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound.withf("%s not found", what)
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateName.withf("%s name already exists", what)
	}
	return fmt.Errorf("%s: %w", op, err)
}
