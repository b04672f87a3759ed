// Package email implements an SMTP-based email notifier
package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
)

// Subject is fixed so recipients can filter on it.
const Subject = "Daily Insider Activity Update"

// Email implements the Notifier interface for SMTP email
type Email struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string

	// send is swappable for tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a new Email notifier
func New() *Email {
	return &Email{send: smtp.SendMail}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Init(cfg config.NotifierConfig) error {
	e.host = cfg.Host
	e.port = cfg.Port
	e.username = cfg.Username
	e.password = cfg.Password
	e.from = cfg.From
	e.to = cfg.To

	if e.port == 0 {
		e.port = 587
	}
	if e.host == "" || e.from == "" || len(e.to) == 0 {
		return fmt.Errorf("email: host, from, and to are required")
	}
	if e.send == nil {
		e.send = smtp.SendMail
	}
	return nil
}

// Send delivers the rendered report page as an HTML email. The page is
// already a complete document, so it goes out as the body unchanged.
func (e *Email) Send(report core.Report, page []byte) error {
	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	var auth smtp.Auth
	if e.username != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.host)
	}

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s",
		e.from,
		strings.Join(e.to, ","),
		Subject,
		page,
	)

	if err := e.send(addr, auth, e.from, e.to, []byte(msg)); err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	return nil
}
