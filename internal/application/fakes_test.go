package application

import (
	"context"
	"os"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	"github.com/oksasatya/pfa-screening-api/internal/domain/repository"
	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
)

func TestMain(m *testing.M) {
	helpers.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// memUsers is a map-backed UserRepository with the same uniqueness rules as the database.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]entity.User
	getErr error
	// beforeCreate runs inside Create before the uniqueness check.
	beforeCreate func()
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]entity.User{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.Email == u.Email {
			return repository.ErrDuplicate
		}
		if u.VerificationToken != "" && other.VerificationToken == u.VerificationToken {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) find(match func(entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.Email == email })
}

func (m *memUsers) GetByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.VerificationToken != "" && u.VerificationToken == token })
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memResults struct {
	mu      sync.Mutex
	results []entity.Result
	users   *memUsers
	reads   int
}

func (m *memResults) Create(_ context.Context, r *entity.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().Add(time.Duration(len(m.results)) * time.Millisecond)
	m.results = append(m.results, *r)
	return nil
}

func (m *memResults) ListByUser(ctx context.Context, userID string) ([]entity.ResultSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.ResultSummary{}
	for _, r := range m.results {
		if r.UserID != userID {
			continue
		}
		u, _ := m.users.GetByID(ctx, userID)
		out = append(out, entity.ResultSummary{ID: r.ID, User: entity.ResultOwner{ID: u.ID, Name: u.Name}, CreatedAt: r.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memResults) GetReport(_ context.Context, id string) (*entity.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	for _, r := range m.results {
		if r.ID == id {
			return &entity.Report{ID: r.ID, Result: r.Result}, nil
		}
	}
	return nil, repository.ErrNotFound
}

type sentMessage struct {
	email string
	value string
}

// recordingNotifier captures every send; err makes each send fail after recording.
type recordingNotifier struct {
	mu            sync.Mutex
	verifications []sentMessage
	otps          []sentMessage
	err           error
}

func (n *recordingNotifier) SendVerification(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifications = append(n.verifications, sentMessage{email, token})
	return n.err
}

func (n *recordingNotifier) SendOTP(_ context.Context, email, otp string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.otps = append(n.otps, sentMessage{email, otp})
	return n.err
}

func (n *recordingNotifier) lastVerification() sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.verifications) == 0 {
		return sentMessage{}
	}
	return n.verifications[len(n.verifications)-1]
}

func sampleResult(n int) []entity.Screening {
	return []entity.Screening{{
		Name:      "DASS-21 #" + strconv.Itoa(n),
		Score:     12,
		Condition: "Moderate",
		Domain:    []entity.DomainScore{{Name: "Stress", Score: 12, Condition: "Moderate"}},
	}}
}
