// Package registry answers case-name uniqueness questions against the
// submitted case records.
package registry

import (
	"context"
	"fmt"

	"github.com/oncolane/caseboard/internal/database"
	"github.com/oncolane/caseboard/internal/models"
)

// Service implements workflow.CaseRegistry over the case_records table.
type Service struct {
	db *database.DB
}

// New creates a registry service.
func New(db *database.DB) *Service {
	return &Service{db: db}
}

// CaseNameExists reports whether the owner already submitted a case
// under this name. The context bounds the query; the workflow discards
// answers that arrive after the session moved on.
func (s *Service) CaseNameExists(ctx context.Context, ownerID, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CaseRecord{}).
		Where("owner_id = ? AND case_name = ?", ownerID, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query case records: %w", err)
	}
	return count > 0, nil
}
