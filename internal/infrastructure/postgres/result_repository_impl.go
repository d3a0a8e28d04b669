package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	"github.com/oksasatya/pfa-screening-api/internal/domain/repository"
)

type ResultRepository struct {
	db DBTX
}

func NewResultRepository(db DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Create(ctx context.Context, res *entity.Result) error {
	if res.Result == nil {
		res.Result = []entity.Screening{}
	}
	payload, err := json.Marshal(res.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO results (user_id, result)
		VALUES ($1, $2)
		RETURNING id::text, created_at
	`, res.UserID, payload)
	if err := row.Scan(&res.ID, &res.CreatedAt); err != nil {
		if pgCode(err) == foreignKeyViolation {
			return repository.ErrNotFound
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ListByUser returns the user's results oldest first, without payloads.
func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]entity.ResultSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id::text, u.id::text, u.name, r.created_at
		FROM results r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	defer rows.Close()

	out := make([]entity.ResultSummary, 0)
	for rows.Next() {
		var s entity.ResultSummary
		if err := rows.Scan(&s.ID, &s.User.ID, &s.User.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (r *ResultRepository) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	var (
		rep     entity.Report
		payload []byte
	)
	err := r.db.QueryRow(ctx, `SELECT id::text, result FROM results WHERE id = $1`, id).Scan(&rep.ID, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	if err := json.Unmarshal(payload, &rep.Result); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}

var _ repository.ResultRepository = (*ResultRepository)(nil)
