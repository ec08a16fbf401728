// Package mail provides best-effort outbound email via SMTP. Dispatch is
// rate limited and wrapped in a circuit breaker so a broken relay cannot
// slow the request path down.
package mail

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"reviewhub/internal/config"
)

type Mailer interface {
	Send(to, subject, body string) error
	IsConfigured() bool
}

type SMTPMailer struct {
	host    string
	server  string
	from    string
	auth    smtp.Auth
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

func NewSMTPMailer(cfg *config.Config, log *logrus.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	st := gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("mail circuit breaker state change")
		},
	}

	return &SMTPMailer{
		host:    cfg.SMTPHost,
		server:  cfg.SMTPHost + ":" + cfg.SMTPPort,
		from:    cfg.MailFrom,
		auth:    auth,
		limiter: rate.NewLimiter(rate.Limit(cfg.MailPerSec), cfg.MailPerSec),
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

// IsConfigured returns true if an SMTP relay has been set up
func (m *SMTPMailer) IsConfigured() bool {
	return m.host != ""
}

// Send delivers a plain text email. Callers treat failures as best-effort;
// an error here is logged, never surfaced to the client.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.IsConfigured() {
		return fmt.Errorf("mail not configured")
	}
	if !m.limiter.Allow() {
		return fmt.Errorf("outbound mail rate exceeded, dropping message to %s", to)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		to, m.from, subject, body,
	))

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, smtp.SendMail(m.server, m.auth, m.from, []string{to}, msg)
	})
	return err
}
