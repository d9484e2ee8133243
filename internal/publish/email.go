package publish

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type EmailOptions struct {
	// Addr is the host:port of the smtp server.
	Addr     string   `json:"addr"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
}

// EmailSink mails the Summary view, every other view is ignored.
type EmailSink struct {
	opts EmailOptions
	send func(e *email.Email) error
}

func NewEmailSink(opts EmailOptions) EmailSink {
	if opts.Subject == "" {
		opts.Subject = "Weekly food inspection summary"
	}
	return EmailSink{
		opts: opts,
		send: func(e *email.Email) error {
			var auth smtp.Auth
			if opts.Username != "" {
				host, _, err := net.SplitHostPort(opts.Addr)
				if err != nil {
					return err
				}
				auth = smtp.PlainAuth("", opts.Username, opts.Password, host)
			}
			return e.Send(opts.Addr, auth)
		},
	}
}

func (s EmailSink) Name() string {
	return "email"
}

func (s EmailSink) Accepts(view string) bool {
	return view == ViewSummary
}

func (s EmailSink) Write(ctx context.Context, view View) error {
	if view.Name != ViewSummary {
		return nil
	}
	if len(s.opts.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	lines := make([]string, len(view.Rows))
	for i, row := range view.Rows {
		lines[i] = strings.Join(row, " ")
	}

	e := email.NewEmail()
	e.From = s.opts.From
	e.To = s.opts.To
	e.Subject = s.opts.Subject
	e.Text = []byte(strings.Join(lines, "\n") + "\n")
	e.HTML = []byte(renderTable(view).RenderHTML())

	err := ctx.Err()
	if err != nil {
		return err
	}
	return s.send(e)
}
