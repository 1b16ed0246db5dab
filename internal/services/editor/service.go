package editor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/vine/internal/repositories/relationshiptype"
	"github.com/Ramsey-B/vine/internal/repositories/session"
	"github.com/Ramsey-B/vine/pkg/catalog"
	vinecontext "github.com/Ramsey-B/vine/pkg/context"
	"github.com/Ramsey-B/vine/pkg/editor"
	"github.com/Ramsey-B/vine/pkg/metrics"
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/search"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

// EventPublisher announces accepted relationship sets.
type EventPublisher interface {
	PublishRelationshipSet(ctx context.Context, editorID string, anchor models.Entity, rels []models.SubmittedRelationship) error
}

type Options struct {
	Sessions  session.SessionRepository
	Transport editor.Transport
	Search    search.Provider
	// Types is optional. Without it every session must bring its own types.
	Types relationshiptype.RelationshipTypeRepository
	// Events is optional.
	Events         EventPublisher
	SearchDebounce time.Duration
	SearchLimit    int
	Logger         ectologger.Logger
}

// Service runs editor sessions. Session state lives in the session
// repository; every mutation happens under the session lock.
type Service struct {
	sessions    session.SessionRepository
	types       relationshiptype.RelationshipTypeRepository
	transport   editor.Transport
	search      search.Provider
	debouncer   *search.Debouncer
	events      EventPublisher
	searchLimit int
	validate    *validator.Validate
	logger      ectologger.Logger
	now         func() time.Time
}

func NewService(opts Options) *Service {
	return &Service{
		sessions:    opts.Sessions,
		types:       opts.Types,
		transport:   opts.Transport,
		search:      opts.Search,
		debouncer:   search.NewDebouncer(opts.SearchDebounce),
		events:      opts.Events,
		searchLimit: opts.SearchLimit,
		validate:    validator.New(),
		logger:      opts.Logger,
		now:         time.Now,
	}
}

// Create opens an editor session for an anchor and its existing relationships.
func (s *Service) Create(ctx context.Context, req models.CreateEditorRequest) (*models.EditorView, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.Create")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return nil, httperror.WrapError(http.StatusBadRequest, err)
	}

	types := req.RelationshipTypes
	if len(types) == 0 && s.types != nil {
		var err error
		types, err = s.types.List(ctx, true)
		if err != nil {
			tracing.Fail(span, err)
			return nil, toHTTPError(err)
		}
	}

	cat, err := catalog.New(types)
	if err != nil {
		return nil, toHTTPError(err)
	}

	cat, err = s.completeCatalog(ctx, cat, req.Relationships)
	if err != nil {
		tracing.Fail(span, err)
		return nil, toHTTPError(err)
	}

	c := editor.New(req.Anchor, req.Relationships, cat)
	sess := &session.Session{
		ID:        uuid.New().String(),
		Snapshot:  c.Snapshot(),
		CreatedAt: s.now().UTC(),
	}
	ctx = vinecontext.SetEditorID(ctx, sess.ID)
	span.SetAttributes(attribute.String("editor.id", sess.ID))

	if err := s.sessions.Save(ctx, sess); err != nil {
		tracing.Fail(span, err)
		return nil, toHTTPError(err)
	}
	metrics.SessionsTotal.WithLabelValues("created").Inc()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"editor_id":     sess.ID,
		"anchor_id":     req.Anchor.ID,
		"anchor_type":   req.Anchor.Type,
		"relationships": len(req.Relationships),
		"types":         cat.Len(),
	}).Info("opened editor session")

	return view(sess, c), nil
}

// completeCatalog looks up seeded type ids the catalog is missing, so an
// existing relationship on a type the caller left out still renders.
func (s *Service) completeCatalog(ctx context.Context, cat *catalog.Catalog, rels []models.Relationship) (*catalog.Catalog, error) {
	if s.types == nil {
		return cat, nil
	}

	types := cat.All()
	seen := map[int]bool{}
	for _, rel := range rels {
		if rel.TypeID == nil || cat.Contains(*rel.TypeID) || seen[*rel.TypeID] {
			continue
		}
		seen[*rel.TypeID] = true

		rt, err := s.types.GetByID(ctx, *rel.TypeID)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			s.logger.WithContext(ctx).WithField("type_id", *rel.TypeID).Warn("seeded relationship has an unknown type")
			continue
		}
		types = append(types, *rt)
	}

	if len(types) == cat.Len() {
		return cat, nil
	}
	return catalog.New(types)
}

// Get renders a session.
func (s *Service) Get(ctx context.Context, id string) (*models.EditorView, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.Get", attribute.String("editor.id", id))
	defer span.End()

	sess, c, err := s.load(ctx, id)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return view(sess, c), nil
}

// Dispatch applies one UI event to a session. A rejected event leaves the
// session untouched.
func (s *Service) Dispatch(ctx context.Context, id string, req models.EditorEventRequest) (*models.EditorView, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.Dispatch",
		attribute.String("editor.id", id), attribute.String("editor.event", req.Type))
	defer span.End()
	ctx = vinecontext.SetEditorID(ctx, id)

	if err := s.validate.Struct(req); err != nil {
		return nil, httperror.WrapError(http.StatusBadRequest, err)
	}

	out, err := s.dispatch(ctx, id, req)
	metrics.EventsTotal.WithLabelValues(req.Type, metrics.Result(err)).Inc()
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"editor_id": id,
			"event":     req.Type,
			"key":       req.Key,
		}).Debug("rejected editor event")
		return nil, toHTTPError(err)
	}
	return out, nil
}

func (s *Service) dispatch(ctx context.Context, id string, req models.EditorEventRequest) (*models.EditorView, error) {
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitting {
		return nil, editor.ErrSubmissionInFlight
	}

	next, err := editor.Reduce(c, editor.Event{
		Type:      editor.EventType(req.Type),
		Key:       req.Key,
		Value:     req.Value,
		RawTypeID: req.TypeID,
	})
	if err != nil {
		return nil, err
	}

	sess.Snapshot = next.Snapshot()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return view(sess, next), nil
}

// Submit sends the session's submission set. The session is locked only
// while it is marked as submitting, so the outbound call runs unlocked and
// further events are refused until it returns. On success the session is
// closed; on failure it is left as it was for a retry.
func (s *Service) Submit(ctx context.Context, id string) (*models.SubmitResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.Submit", attribute.String("editor.id", id))
	defer span.End()
	ctx = vinecontext.SetEditorID(ctx, id)

	c, err := s.beginSubmit(ctx, id)
	if err != nil {
		if errors.Is(err, editor.ErrNothingToSubmit) {
			metrics.SubmissionsTotal.WithLabelValues("empty").Inc()
		}
		return nil, toHTTPError(err)
	}

	result, err := editor.Submit(ctx, c, s.transport)
	if err != nil {
		tracing.Fail(span, err)
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Error("failed to submit relationship set")
		if endErr := s.abortSubmit(ctx, id); endErr != nil {
			s.logger.WithContext(ctx).WithError(endErr).WithField("editor_id", id).Error("failed to reopen editor session after submission failure")
		}
		return nil, toHTTPError(err)
	}

	anchor := c.Anchor()
	// An expired session means the set was not accepted.
	if s.events != nil && !result.SessionExpired {
		if err := s.events.PublishRelationshipSet(ctx, id, anchor, result.Submitted); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Warn("failed to publish relationship set event")
		}
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Warn("failed to close submitted editor session")
	}
	s.debouncer.Forget(id)

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	metrics.SubmissionSize.Observe(float64(len(result.Submitted)))
	metrics.SessionsTotal.WithLabelValues("submitted").Inc()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"editor_id":       id,
		"anchor_id":       anchor.ID,
		"anchor_type":     anchor.Type,
		"relationships":   len(result.Submitted),
		"redirect":        result.Redirect,
		"session_expired": result.SessionExpired,
	}).Info("submitted relationship set")

	return &models.SubmitResponse{
		Redirect:       result.Redirect,
		SessionExpired: result.SessionExpired,
		Count:          len(result.Submitted),
	}, nil
}

func (s *Service) beginSubmit(ctx context.Context, id string) (*editor.Collection, error) {
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitting {
		return nil, editor.ErrSubmissionInFlight
	}
	if !c.HasSubmittableChanges() {
		return nil, editor.ErrNothingToSubmit
	}

	sess.Submitting = true
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) abortSubmit(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Submitting = false
	return s.sessions.Save(ctx, sess)
}

// Discard closes a session without submitting it.
func (s *Service) Discard(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "editor.Discard", attribute.String("editor.id", id))
	defer span.End()
	ctx = vinecontext.SetEditorID(ctx, id)

	if _, err := s.sessions.Get(ctx, id); err != nil {
		return toHTTPError(err)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		tracing.Fail(span, err)
		return toHTTPError(err)
	}
	s.debouncer.Forget(id)
	metrics.SessionsTotal.WithLabelValues("discarded").Inc()

	s.logger.WithContext(ctx).WithField("editor_id", id).Info("discarded editor session")
	return nil
}

// Search looks up entities for a session's autocomplete. Queries from the
// same session are debounced and a superseded query returns
// search.ErrSuperseded. Blank queries return no entities.
func (s *Service) Search(ctx context.Context, id, query string) ([]models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.Search", attribute.String("editor.id", id))
	defer span.End()
	ctx = vinecontext.SetEditorID(ctx, id)

	if _, err := s.sessions.Get(ctx, id); err != nil {
		return nil, toHTTPError(err)
	}

	q, err := s.debouncer.Wait(ctx, id, query)
	switch {
	case errors.Is(err, search.ErrBlankQuery):
		metrics.SearchesTotal.WithLabelValues("ignored").Inc()
		return []models.Entity{}, nil
	case errors.Is(err, search.ErrSuperseded):
		metrics.SearchesTotal.WithLabelValues("superseded").Inc()
		return nil, err
	case err != nil:
		return nil, err
	}

	entities, err := search.Collect(s.search.Search(ctx, q), s.searchLimit)
	if err != nil {
		tracing.Fail(span, err)
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		s.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Warn("entity search failed")
		return nil, httperror.WrapError(http.StatusBadGateway, err)
	}
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return entities, nil
}

// RelationshipTypes lists the selectable relationship types.
func (s *Service) RelationshipTypes(ctx context.Context, includeDeprecated bool) ([]models.RelationshipType, error) {
	ctx, span := tracing.StartSpan(ctx, "editor.RelationshipTypes")
	defer span.End()

	if s.types == nil {
		return []models.RelationshipType{}, nil
	}
	types, err := s.types.List(ctx, includeDeprecated)
	if err != nil {
		tracing.Fail(span, err)
		return nil, toHTTPError(err)
	}
	return types, nil
}

func (s *Service) load(ctx context.Context, id string) (*session.Session, *editor.Collection, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	c, err := editor.Restore(sess.Snapshot)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Error("failed to restore editor session")
		return nil, nil, err
	}
	return sess, c, nil
}

func view(sess *session.Session, c *editor.Collection) *models.EditorView {
	return &models.EditorView{
		ID:            sess.ID,
		Anchor:        c.Anchor(),
		Rows:          c.View(),
		SelectedCount: c.SelectedCount(),
		Submittable:   c.HasSubmittableChanges(),
		Submitting:    sess.Submitting,
		ExpiresAt:     sess.ExpiresAt,
	}
}
