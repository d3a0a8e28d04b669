package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	"github.com/oksasatya/pfa-screening-api/internal/domain/repository"
)

func sampleScreenings() []entity.Screening {
	return []entity.Screening{{
		Name:      "DASS-21",
		Score:     14,
		Condition: "Mild",
		Domain: []entity.DomainScore{
			{Name: "Depression", Score: 6, Condition: "Normal"},
			{Name: "Anxiety", Score: 8, Condition: "Mild"},
		},
	}}
}

func TestResultRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO results`).
		WithArgs("u-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("r-1", now))

	res := &entity.Result{UserID: "u-1", Result: sampleScreenings()}
	require.NoError(t, repo.Create(context.Background(), res))
	assert.Equal(t, "r-1", res.ID)
	assert.Equal(t, now, res.CreatedAt)
}

func TestResultRepository_Create_UnknownUser(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)

	mock.ExpectQuery(`INSERT INTO results`).
		WithArgs("u-404", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &entity.Result{UserID: "u-404"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResultRepository_ListByUser(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)
	t1 := time.Now().Add(-time.Hour)
	t2 := time.Now()

	mock.ExpectQuery(`SELECT r.id::text, u.id::text, u.name, r.created_at\s+FROM results r`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow("r-1", "u-1", "Alice", t1).
			AddRow("r-2", "u-1", "Alice", t2))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.ResultSummary{ID: "r-1", User: entity.ResultOwner{ID: "u-1", Name: "Alice"}, CreatedAt: t1}, got[0])
	assert.Equal(t, "r-2", got[1].ID)
}

func TestResultRepository_ListByUser_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)

	mock.ExpectQuery(`FROM results r`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "created_at"}))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResultRepository_GetReport(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)

	payload := []byte(`[{"name":"DASS-21","domain":[{"name":"Anxiety","score":8,"condition":"Mild"}],"score":14,"condition":"Mild"}]`)
	mock.ExpectQuery(`SELECT id::text, result FROM results WHERE id = \$1`).
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "result"}).AddRow("r-1", payload))

	rep, err := repo.GetReport(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", rep.ID)
	require.Len(t, rep.Result, 1)
	assert.Equal(t, "DASS-21", rep.Result[0].Name)
	assert.Equal(t, 8.0, rep.Result[0].Domain[0].Score)
}

func TestResultRepository_GetReport_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewResultRepository(mock)

	mock.ExpectQuery(`FROM results WHERE id = \$1`).
		WithArgs("r-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetReport(context.Background(), "r-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
