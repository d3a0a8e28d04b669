package repository

import (
	"context"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
)

// ResultRepository persists screening results keyed by owner.
type ResultRepository interface {
	Create(ctx context.Context, r *entity.Result) error
	ListByUser(ctx context.Context, userID string) ([]entity.ResultSummary, error)
	GetReport(ctx context.Context, id string) (*entity.Report, error)
}
