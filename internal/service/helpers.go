package service

import (
	"errors"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actorUUID parses the actor id claim for attribution columns. Nil when the
// claim is malformed; attribution is best-effort, never a reason to reject.
func actorUUID(a policy.Actor) *uuid.UUID {
	if parsed, err := uuid.Parse(a.ID); err == nil {
		return &parsed
	}
	return nil
}

// parseEntityID turns a path id into a UUID, mapping garbage input to the
// same NOT_FOUND the caller would get for a well-formed unknown id.
func parseEntityID(raw, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(entity)
	}
	return id, nil
}

// notFoundOr maps gorm's record-not-found onto the taxonomy, passing other
// store errors through untouched.
func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}

// appliedFilters echoes the filter window back to the client.
func appliedFilters(f model.LedgerFilters) model.AppliedFilters {
	applied := model.AppliedFilters{Category: f.Category}
	if f.StartDate != nil {
		applied.StartDate = f.StartDate.Format("2006-01-02")
	}
	if f.EndDate != nil {
		applied.EndDate = f.EndDate.Format("2006-01-02")
	}
	return applied
}
