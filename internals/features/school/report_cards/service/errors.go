// file: internals/features/school/report_cards/service/errors.go
package service

import (
	"errors"
	"fmt"
)

/* =========================================================
   Error taxonomy: validation / not_found / conflict
   Reason = kode mesin (stabil, dipakai FE & test)
========================================================= */

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

const (
	// validation / precondition
	ReasonInvalidPeriod          = "INVALID_PERIOD"
	ReasonInvalidInput           = "INVALID_INPUT"
	ReasonWeightsNot100          = "WEIGHTS_NOT_100"
	ReasonIncompleteGrades       = "INCOMPLETE_GRADES"
	ReasonRejectionNotesRequired = "REJECTION_NOTES_REQUIRED"
	ReasonApproverRequired       = "APPROVER_REQUIRED"

	// not found
	ReasonReportCardNotFound = "REPORT_CARD_NOT_FOUND"
	ReasonScoreNotFound      = "SCORE_NOT_FOUND"
	ReasonStudentNotInClass  = "STUDENT_NOT_IN_CLASS"

	// conflict
	ReasonInvalidTransition    = "INVALID_TRANSITION"
	ReasonCardNotDraft         = "CARD_NOT_DRAFT"
	ReasonRegenerationRequired = "REGENERATION_REQUIRED"
	ReasonNothingToApprove     = "NOTHING_TO_APPROVE"
	ReasonNothingToSubmit      = "NOTHING_TO_SUBMIT"
	ReasonScoreLocked          = "SCORE_LOCKED"
	ReasonScoresChanged        = "SCORES_CHANGED"
	ReasonDuplicate            = "DUPLICATE"

	// selain error bertipe (infra / DB)
	ReasonInternal = "INTERNAL"
)

// Sentinel dari layer repository (implementasi storage wajib memetakan ke sini)
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind) + ": " + e.Reason
	}
	return e.Message
}

func newError(kind ErrorKind, reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func validationError(reason, format string, args ...any) *Error {
	return newError(KindValidation, reason, format, args...)
}

func notFoundError(reason, format string, args ...any) *Error {
	return newError(KindNotFound, reason, format, args...)
}

func conflictError(reason, format string, args ...any) *Error {
	return newError(KindConflict, reason, format, args...)
}

// AsError: ambil *Error dari rantai wrap
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }

// ReasonOf: reason untuk laporan per-item (bulk); error non-domain → INTERNAL
func ReasonOf(err error) string {
	if e, ok := AsError(err); ok {
		return e.Reason
	}
	return ReasonInternal
}
