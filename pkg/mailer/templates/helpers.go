package templates

import (
	"time"

	"github.com/oksasatya/pfa-screening-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithCode(code string) Option     { return func(d *EmailData) { d.Code = code } }

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:       email,
		Type:        typ,
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(cfg *config.Config, email, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(verifyURL), WithTime(time.Now())}, opts...)
	return ToMap(NewBaseEmailData(cfg, VerifyEmail, email, opts...))
}

func NewResetOTPData(cfg *config.Config, email, code string, opts ...Option) map[string]any {
	opts = append([]Option{WithCode(code), WithTime(time.Now())}, opts...)
	return ToMap(NewBaseEmailData(cfg, ResetOTP, email, opts...))
}
