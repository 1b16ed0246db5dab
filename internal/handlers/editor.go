package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/search"
)

// EditorService runs editor sessions.
type EditorService interface {
	Create(ctx context.Context, req models.CreateEditorRequest) (*models.EditorView, error)
	Get(ctx context.Context, id string) (*models.EditorView, error)
	Dispatch(ctx context.Context, id string, req models.EditorEventRequest) (*models.EditorView, error)
	Submit(ctx context.Context, id string) (*models.SubmitResponse, error)
	Discard(ctx context.Context, id string) error
	Search(ctx context.Context, id, query string) ([]models.Entity, error)
	RelationshipTypes(ctx context.Context, includeDeprecated bool) ([]models.RelationshipType, error)
}

// EditorHandler serves the relationship editor API.
type EditorHandler struct {
	service EditorService
	logger  ectologger.Logger
}

func NewEditorHandler(service EditorService, logger ectologger.Logger) *EditorHandler {
	return &EditorHandler{service: service, logger: logger}
}

// RegisterRoutes registers editor routes
func (h *EditorHandler) RegisterRoutes(g *echo.Group) {
	editors := g.Group("/editors")
	editors.POST("", h.Create)
	editors.GET("/:id", h.Get)
	editors.DELETE("/:id", h.Discard)
	editors.POST("/:id/events", h.Dispatch)
	editors.POST("/:id/submit", h.Submit)
	editors.GET("/:id/search", h.Search)

	g.GET("/relationship-types", h.RelationshipTypes)
}

// Create opens an editor session
func (h *EditorHandler) Create(c echo.Context) error {
	req, err := BindRequest[models.CreateEditorRequest](c)
	if err != nil {
		return err
	}

	v, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *EditorHandler) Get(c echo.Context) error {
	id, err := ParseEditorID(c)
	if err != nil {
		return err
	}

	v, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Dispatch applies one UI event and returns the new state
func (h *EditorHandler) Dispatch(c echo.Context) error {
	id, err := ParseEditorID(c)
	if err != nil {
		return err
	}

	req, err := BindRequest[models.EditorEventRequest](c)
	if err != nil {
		return err
	}

	v, err := h.service.Dispatch(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *EditorHandler) Submit(c echo.Context) error {
	id, err := ParseEditorID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Submit(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EditorHandler) Discard(c echo.Context) error {
	id, err := ParseEditorID(c)
	if err != nil {
		return err
	}

	if err := h.service.Discard(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search runs a debounced autocomplete query. A query replaced by a newer one
// from the same session answers 204 so the page can drop it.
func (h *EditorHandler) Search(c echo.Context) error {
	id, err := ParseEditorID(c)
	if err != nil {
		return err
	}

	entities, err := h.service.Search(c.Request().Context(), id, c.QueryParam("q"))
	if errors.Is(err, search.ErrSuperseded) {
		h.logger.WithContext(c.Request().Context()).WithField("editor_id", id).Debug("dropped superseded search")
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entities)
}

func (h *EditorHandler) RelationshipTypes(c echo.Context) error {
	includeDeprecated, _ := strconv.ParseBool(c.QueryParam("include_deprecated"))

	types, err := h.service.RelationshipTypes(c.Request().Context(), includeDeprecated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}
