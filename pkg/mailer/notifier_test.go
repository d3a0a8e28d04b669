package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pfa-screening-api/config"
	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
)

type fakePublisher struct {
	bodies [][]byte
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.bodies = append(p.bodies, b)
	return nil
}

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, text, html})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{DomainLink: "https://pfa.example.com", CompanyName: "PFA"}
}

func TestQueueNotifier_PublishesJobs(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub, testConfig())

	require.NoError(t, n.SendVerification(context.Background(), "a@x.com", "tok"))
	require.NoError(t, n.SendOTP(context.Background(), "a@x.com", "1234"))
	require.Len(t, pub.bodies, 2)

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, "verify_email", job.Template)
	assert.Equal(t, "https://pfa.example.com/verify/tok", job.Data["VerifyURL"])

	require.NoError(t, json.Unmarshal(pub.bodies[1], &job))
	assert.Equal(t, "reset_otp", job.Template)
	assert.Equal(t, "1234", job.Data["Code"])
}

func TestQueueNotifier_PropagatesPublishError(t *testing.T) {
	n := NewQueueNotifier(&fakePublisher{err: errors.New("channel closed")}, testConfig())
	assert.Error(t, n.SendOTP(context.Background(), "a@x.com", "1234"))
}

func TestDirectNotifier_RendersAndSends(t *testing.T) {
	s := &fakeSender{}
	n := NewDirectNotifier(s, testConfig())

	require.NoError(t, n.SendVerification(context.Background(), "a@x.com", "tok"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "a@x.com", s.sent[0].to)
	assert.Equal(t, "Email Verification", s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "https://pfa.example.com/verify/tok")
}

func TestDeliver_QueuedJobSurvivesJSON(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewQueueNotifier(pub, testConfig()).SendOTP(context.Background(), "b@x.com", "0007"))

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))

	s := &fakeSender{}
	require.NoError(t, Deliver(context.Background(), s, job))
	assert.Contains(t, s.sent[0].text, "0007")
}

func TestEmailJob_RenderRaw(t *testing.T) {
	subject, text, _, err := EmailJob{To: "a@x.com", Subject: "hi", Text: "body"}.Render()
	require.NoError(t, err)
	assert.Equal(t, "hi", subject)
	assert.Equal(t, "body", text)

	_, _, _, err = EmailJob{To: "a@x.com", Subject: "hi"}.Render()
	assert.ErrorIs(t, err, errEmptyJob)

	_, _, _, err = EmailJob{Subject: "hi", Text: "body"}.Render()
	assert.Error(t, err)
}

func TestLogNotifier_NeverFails(t *testing.T) {
	n := NewLogNotifier(helpers.NewDiscardLogger(), testConfig())
	assert.NoError(t, n.SendVerification(context.Background(), "a@x.com", "tok"))
	assert.NoError(t, n.SendOTP(context.Background(), "a@x.com", "1234"))
}

func TestMailgun_Configured(t *testing.T) {
	assert.False(t, NewMailgun("", "key", "from").Configured())
	assert.True(t, NewMailgun("mg.example.com", "key", "PFA <no-reply@example.com>").Configured())
}
