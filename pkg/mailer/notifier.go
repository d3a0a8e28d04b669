package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/config"
)

// Publisher puts a JSON payload on a queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Sender delivers an already rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver renders the job and hands it to the sender.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := job.Render()
	if err != nil {
		return fmt.Errorf("render %q: %w", job.Template, err)
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// QueueNotifier enqueues email jobs for cmd/email_worker.
type QueueNotifier struct {
	Pub Publisher
	Cfg *config.Config
}

func NewQueueNotifier(pub Publisher, cfg *config.Config) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Cfg: cfg}
}

func (n *QueueNotifier) SendVerification(ctx context.Context, email, token string) error {
	return n.Pub.PublishJSON(ctx, NewVerificationJob(n.Cfg, email, token))
}

func (n *QueueNotifier) SendOTP(ctx context.Context, email, otp string) error {
	return n.Pub.PublishJSON(ctx, NewOTPJob(n.Cfg, email, otp))
}

// DirectNotifier renders and sends in-process, without a queue.
type DirectNotifier struct {
	Sender Sender
	Cfg    *config.Config
}

func NewDirectNotifier(s Sender, cfg *config.Config) *DirectNotifier {
	return &DirectNotifier{Sender: s, Cfg: cfg}
}

func (n *DirectNotifier) SendVerification(ctx context.Context, email, token string) error {
	return Deliver(ctx, n.Sender, NewVerificationJob(n.Cfg, email, token))
}

func (n *DirectNotifier) SendOTP(ctx context.Context, email, otp string) error {
	return Deliver(ctx, n.Sender, NewOTPJob(n.Cfg, email, otp))
}

// LogNotifier only logs; used when MAIL_SEND_ENABLED=false.
type LogNotifier struct {
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewLogNotifier(logger *logrus.Logger, cfg *config.Config) *LogNotifier {
	return &LogNotifier{Logger: logger, Cfg: cfg}
}

func (n *LogNotifier) SendVerification(_ context.Context, email, token string) error {
	n.Logger.WithFields(logrus.Fields{"email": email, "link": n.Cfg.VerifyLink(token)}).Info("mail disabled: verification email not sent")
	return nil
}

func (n *LogNotifier) SendOTP(_ context.Context, email, _ string) error {
	n.Logger.WithField("email", email).Info("mail disabled: otp email not sent")
	return nil
}
