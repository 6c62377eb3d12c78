package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	branchDomain "github.com/hanco-rental/service-booking/internal/domain/branch"
)

// BranchService exposes the read-only branch directory.
type BranchService struct {
	branches branchDomain.BranchRepository
	logger   *zap.Logger
}

// NewBranchService creates a new BranchService.
func NewBranchService(branches branchDomain.BranchRepository, logger *zap.Logger) *BranchService {
	return &BranchService{branches: branches, logger: logger}
}

// GetBranch retrieves a single branch by ID.
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*branchDomain.Branch, error) {
	return s.branches.FindByID(ctx, id)
}

// ListBranches returns branches, optionally filtered by city.
func (s *BranchService) ListBranches(ctx context.Context, city string, page, limit int) (*domain.PaginatedResult[*branchDomain.Branch], error) {
	branches, total, err := s.branches.List(ctx, city, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(branches, total, page, limit)
	return &result, nil
}
