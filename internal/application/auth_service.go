package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	repo "github.com/oksasatya/pfa-screening-api/internal/domain/repository"
	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
)

// verificationTokenBytes is the entropy of an email verification token.
const verificationTokenBytes = 20

// notifyTimeout bounds a single notification attempt.
const notifyTimeout = 15 * time.Second

// Notifier delivers verification links and reset codes.
type Notifier interface {
	SendVerification(ctx context.Context, email, token string) error
	SendOTP(ctx context.Context, email, otp string) error
}

// AuthService runs the credential lifecycle: register, verify, login and password reset.
type AuthService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger

	pending sync.WaitGroup
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, notifier Notifier, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &AuthService{
		Repo:     repo,
		JWT:      jwt,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Register stores a new unverified user and mails the verification link in the background.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := helpers.GenVerificationToken(verificationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	u := &entity.User{
		Email:             email,
		Password:          hash,
		Name:              name,
		VerificationToken: token,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metricRegistrations.Add(1)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.Notifier.SendVerification(c, u.Email, token); err != nil {
			s.notifyFailed(err, "verification", u)
		}
	}()

	return u, nil
}

// VerifyEmail marks the owner of token as verified. Tokens work once.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidVerificationToken
	}
	u, err := s.Repo.GetByVerificationToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrInvalidVerificationToken
	}
	if err != nil {
		return fmt.Errorf("lookup verification token: %w", err)
	}

	u.MarkVerified()
	if err := s.Repo.Update(ctx, u); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	metricVerifications.Add(1)
	return nil
}

// Login checks the password of a verified user and returns a bearer token for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		metricLoginsFailed.Add(1)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if !u.IsVerified {
		metricLoginsFailed.Add(1)
		return "", ErrEmailNotVerified
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		metricLoginsFailed.Add(1)
		return "", ErrInvalidPassword
	}

	token, err := s.JWT.GenerateBearer(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate bearer token failed")
		return "", fmt.Errorf("sign token: %w", err)
	}
	metricLoginsOK.Add(1)
	return token, nil
}

// GetUser returns the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// Authenticate resolves the user a bearer token was issued for.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*entity.User, error) {
	claims, err := s.JWT.Parse(bearer)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, helpers.ErrInvalidToken
	}
	return s.GetUser(ctx, claims.UserID)
}

// RequestPasswordResetOTP mails a fresh code to the user and returns it wrapped
// in a signed token. Delivery failures are logged, not returned.
func (s *AuthService) RequestPasswordResetOTP(ctx context.Context, email string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}

	otp, err := helpers.GenOTPCode(helpers.OTPLength)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	token, err := s.JWT.GenerateOTPToken(otp)
	if err != nil {
		return "", fmt.Errorf("sign otp token: %w", err)
	}

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.Notifier.SendOTP(c, u.Email, otp); err != nil {
		s.notifyFailed(err, "otp", u)
	}
	return token, nil
}

// ResetPassword replaces the stored password of the user with the given email.
// TODO: require the OTP token issued by RequestPasswordResetOTP once clients send it back.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	if err := s.Repo.Update(ctx, u); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	metricPasswordResets.Add(1)
	return nil
}

// Wait blocks until every background notification has finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) notifyFailed(err error, kind string, u *entity.User) {
	metricNotificationFailures.Add(1)
	s.Logger.WithError(err).WithFields(logrus.Fields{
		"kind":    kind,
		"user_id": u.ID,
		"email":   u.Email,
	}).Error("send email failed")
}
