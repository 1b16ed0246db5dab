package editor

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/vine/internal/repositories/session"
	"github.com/Ramsey-B/vine/pkg/catalog"
	"github.com/Ramsey-B/vine/pkg/editor"
	"github.com/Ramsey-B/vine/pkg/search"
)

var statusByError = []struct {
	err  error
	code int
}{
	{session.ErrNotFound, http.StatusNotFound},
	{editor.ErrRowNotFound, http.StatusNotFound},
	{editor.ErrSubmissionInFlight, http.StatusConflict},
	{session.ErrLockNotAcquired, http.StatusConflict},
	{editor.ErrTransport, http.StatusBadGateway},
	{editor.ErrRowLocked, http.StatusUnprocessableEntity},
	{editor.ErrEndpointLocked, http.StatusUnprocessableEntity},
	{editor.ErrSelfReference, http.StatusUnprocessableEntity},
	{editor.ErrUnknownType, http.StatusUnprocessableEntity},
	{editor.ErrDeprecatedType, http.StatusUnprocessableEntity},
	{editor.ErrNotSelectable, http.StatusUnprocessableEntity},
	{editor.ErrNothingToSubmit, http.StatusUnprocessableEntity},
	{editor.ErrInvalidTypeID, http.StatusBadRequest},
	{editor.ErrUnknownEvent, http.StatusBadRequest},
	{catalog.ErrInvalidTemplate, http.StatusBadRequest},
	{catalog.ErrInvalidType, http.StatusBadRequest},
	{catalog.ErrDuplicateType, http.StatusBadRequest},
	{search.ErrBlankQuery, http.StatusBadRequest},
}

// toHTTPError maps domain errors to HTTP errors. Errors that already carry a
// status pass through.
func toHTTPError(err error) error {
	if err == nil || httperror.IsHTTPError(err) {
		return err
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return httperror.WrapError(m.code, err)
		}
	}
	return httperror.WrapError(http.StatusInternalServerError, err)
}
