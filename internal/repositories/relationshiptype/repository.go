package relationshiptype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/vine/pkg/database"
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

const tableName = "relationship_types"

// RelationshipTypeRepository reads the relationship-type catalog.
type RelationshipTypeRepository interface {
	List(ctx context.Context, includeDeprecated bool) ([]models.RelationshipType, error)
	GetByID(ctx context.Context, id int) (*models.RelationshipType, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

var columns = []string{"id", "label", "display_template", "deprecated"}

// List returns the catalog ordered by id.
func (r *Repository) List(ctx context.Context, includeDeprecated bool) ([]models.RelationshipType, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationshipTypeRepository.List")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...).From(tableName)
	if !includeDeprecated {
		sb.Where(sb.Equal("deprecated", false))
	}
	sb.OrderBy("id").Asc()

	query, args := sb.Build()

	types := []models.RelationshipType{}
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("failed to list relationship types")
		return nil, fmt.Errorf("failed to list relationship types: %w", err)
	}

	return types, nil
}

// GetByID returns nil when the type does not exist.
func (r *Repository) GetByID(ctx context.Context, id int) (*models.RelationshipType, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationshipTypeRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...).From(tableName).Where(sb.Equal("id", id))
	query, args := sb.Build()

	var rt models.RelationshipType
	if err := r.db.GetContext(ctx, &rt, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("failed to get relationship type")
		return nil, fmt.Errorf("failed to get relationship type %d: %w", id, err)
	}

	return &rt, nil
}
