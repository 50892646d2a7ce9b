// Package message builds email messages with fixed HTML bodies, and saves or
// sends them.
package message

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Message is an email message with HTML body.
type Message struct {
	ID       string
	From     string
	To       []string
	Subject  string
	HTMLBody string
	Date     time.Time
}

// New returns a message with generated ID, dated now.
func New(from string, to []string, subject, htmlBody string) Message {
	return Message{
		ID:       uuid.NewString(),
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		Date:     time.Now(),
	}
}

// Validate checks that sender and every recipient are valid addresses and
// that the subject isn't empty.
func (self *Message) Validate() error {
	var errs []error
	if _, err := mail.ParseAddress(self.From); err != nil {
		errs = append(errs, fmt.Errorf("from %q: %w", self.From, err))
	}

	if len(self.To) == 0 {
		errs = append(errs, errors.New("no recipients"))
	}
	for _, to := range self.To {
		if _, err := mail.ParseAddress(to); err != nil {
			errs = append(errs, fmt.Errorf("to %q: %w", to, err))
		}
	}

	if strings.TrimSpace(self.Subject) == "" {
		errs = append(errs, errors.New("empty subject"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidMessage}, errs...)...)
	}
	return nil
}

// WriteTo writes the message in RFC 5322 format, with quoted-printable
// text/html body, to w. The message must be valid.
func (self *Message) WriteTo(w io.Writer) (int64, error) {
	msg, err := self.mailMsg()
	if err != nil {
		return 0, err
	}

	n, err := msg.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write message: %w", err)
	}
	return n, nil
}

func (self *Message) mailMsg() (*gomail.Msg, error) {
	if err := self.Validate(); err != nil {
		return nil, err
	}

	msg := gomail.NewMsg(gomail.WithEncoding(gomail.EncodingQP),
		gomail.WithCharset(gomail.CharsetUTF8))
	if err := msg.From(self.From); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	if err := msg.To(self.To...); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	msg.SetMessageIDWithValue(self.ID + "@htmlfix")
	msg.SetDateWithValue(self.Date)
	msg.Subject(self.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, self.HTMLBody)
	return msg, nil
}

// Fixer turns an HTML fragment into a safe document, like *htmlfix.Fixer.
type Fixer interface {
	Fix(s string) string
}

// CreateFixedEmail fixes htmlBody, builds message with it and hands the
// message to sender. It returns the message passed to sender.
func CreateFixedEmail(ctx context.Context, fixer Fixer, sender Sender,
	htmlBody, from string, to []string, subject string,
) (Message, error) {
	m := New(from, to, subject, fixer.Fix(htmlBody))
	if err := m.Validate(); err != nil {
		return m, err
	}

	if err := sender.Send(ctx, m); err != nil {
		return m, err
	}
	return m, nil
}
