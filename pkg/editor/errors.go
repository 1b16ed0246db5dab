package editor

import "errors"

var (
	ErrRowNotFound        = errors.New("row not found")
	ErrRowLocked          = errors.New("row is locked for editing")
	ErrEndpointLocked     = errors.New("endpoint is locked to the anchor entity")
	ErrSelfReference      = errors.New("source and target cannot both be the anchor entity")
	ErrUnknownType        = errors.New("unknown relationship type")
	ErrDeprecatedType     = errors.New("deprecated relationship type is not offered for new relationships")
	ErrInvalidTypeID      = errors.New("invalid relationship type id")
	ErrNotSelectable      = errors.New("row cannot be selected")
	ErrUnknownEvent       = errors.New("unknown event")
	ErrNothingToSubmit    = errors.New("no changed relationships to submit")
	ErrTransport          = errors.New("submission transport failed")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)
