package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	repo "github.com/oksasatya/pfa-screening-api/internal/domain/repository"
	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
)

// ResultService stores screening results and serves them back.
// Redis, ES and GCS are optional; nil disables the matching side feature.
type ResultService struct {
	Repo     repo.ResultRepository
	Users    repo.UserRepository
	Redis    redis.Cmdable
	CacheTTL time.Duration
	ES       *elasticsearch.Client
	ESIndex  string
	GCS      *storage.Client
	Bucket   string
	Logger   *logrus.Logger
}

func NewResultService(results repo.ResultRepository, users repo.UserRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *ResultService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	s := &ResultService{
		Repo:     results,
		Users:    users,
		CacheTTL: cacheTTL,
		Logger:   logger,
	}
	if rdb != nil {
		s.Redis = rdb
	}
	return s
}

// WithSearch enables indexing of result summaries into Elasticsearch.
func (s *ResultService) WithSearch(es *elasticsearch.Client, index string) *ResultService {
	s.ES = es
	s.ESIndex = index
	return s
}

// WithArchive enables copying every report to a GCS bucket.
func (s *ResultService) WithArchive(gcs *storage.Client, bucket string) *ResultService {
	s.GCS = gcs
	s.Bucket = bucket
	return s
}

func reportKey(id string) string {
	return "report:" + id
}

// CreateResult stores a result for an existing user and returns its id.
func (s *ResultService) CreateResult(ctx context.Context, userID string, screenings []entity.Screening) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	res := &entity.Result{UserID: u.ID, Result: screenings}
	if err := s.Repo.Create(ctx, res); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("create result: %w", err)
	}
	metricResultsCreated.Add(1)

	_ = s.indexResult(ctx, u, res)
	_ = s.archiveReport(ctx, res)
	return res.ID, nil
}

// GetResults lists the user's results without payloads. An empty list is ErrNoResults.
func (s *ResultService) GetResults(ctx context.Context, userID string) ([]entity.ResultSummary, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNoResults
	}
	out, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}

// GetReport returns the payload of one result. Results never change, so
// reports are cached in Redis once read.
func (s *ResultService) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrResultNotFound
	}
	if s.Redis != nil {
		var cached entity.Report
		found, err := helpers.RedisGetJSON(ctx, s.Redis, reportKey(id), &cached)
		if err != nil {
			s.Logger.WithError(err).WithField("result_id", id).Warn("report cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	rep, err := s.Repo.GetReport(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, reportKey(id), rep, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("result_id", id).Warn("report cache write failed")
		}
	}
	return rep, nil
}

type resultDoc struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name"`
	CreatedAt  string         `json:"created_at"`
	Screenings []screeningDoc `json:"screenings"`
	Conditions []string       `json:"conditions"`
}

type screeningDoc struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Condition string  `json:"condition"`
}

func (s *ResultService) indexResult(ctx context.Context, u *entity.User, res *entity.Result) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := resultDoc{
		ID:        res.ID,
		UserID:    u.ID,
		UserName:  u.Name,
		CreatedAt: res.CreatedAt.Format(time.RFC3339Nano),
	}
	for _, sc := range res.Result {
		doc.Screenings = append(doc.Screenings, screeningDoc{Name: sc.Name, Score: sc.Score, Condition: sc.Condition})
		doc.Conditions = append(doc.Conditions, sc.Condition)
		for _, d := range sc.Domain {
			doc.Conditions = append(doc.Conditions, d.Condition)
		}
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: res.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	resp, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("result_id", res.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.IsError() {
		s.Logger.WithField("status", resp.Status()).WithField("result_id", res.ID).Warn("es index response error")
		return fmt.Errorf("es index: %s", resp.Status())
	}
	return nil
}

// SearchResults runs a full-text query over one user's indexed results.
func (s *ResultService) SearchResults(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	must := []map[string]any{}
	if strings.TrimSpace(q) != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"screenings.name^2", "conditions"},
			},
		})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{{"term": map[string]any{"user_id": userID}}},
				"must":   must,
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ResultService) archiveReport(ctx context.Context, res *entity.Result) error {
	if s.GCS == nil || s.Bucket == "" {
		return nil
	}
	objectPath := path.Join("reports", res.UserID, res.ID+".json")
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := helpers.UploadJSON(c, s.GCS, s.Bucket, objectPath, entity.Report{ID: res.ID, Result: res.Result}); err != nil {
		s.Logger.WithError(err).WithField("result_id", res.ID).Warn("report archive failed")
		return err
	}
	return nil
}
