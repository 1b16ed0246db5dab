package editor

import (
	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/vine/pkg/models"
)

// FilterSubmission returns, in order, the complete relationships of every
// changed row that is not marked deleted.
func FilterSubmission(records []Record) []models.SubmittedRelationship {
	submittable := ectolinq.Filter(records, func(r Record) bool {
		return !r.Deleted && r.Changed() && r.Valid()
	})

	return ectolinq.Map(submittable, func(r Record) models.SubmittedRelationship {
		return models.SubmittedRelationship{
			Source: *r.Source,
			Target: *r.Target,
			TypeID: *r.TypeID,
		}
	})
}
