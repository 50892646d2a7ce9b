package message

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mrz1836/postmark"
)

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// FileSender saves messages as .eml files instead of sending them.
type FileSender struct {
	path string
}

// NewFileSender returns a sender, which saves messages to path. If path is a
// directory or ends with a path separator, every message is saved into it
// under a name generated from its date and subject. Otherwise every message
// overwrites the file at path.
func NewFileSender(path string) *FileSender {
	return &FileSender{path: path}
}

// Path returns name of the file m will be saved to.
func (self *FileSender) Path(m Message) string {
	if !self.isDir() {
		return self.path
	}
	name := fmt.Sprintf("%s_%s.eml",
		m.Date.Format("2006_01_02_150405"), sanitizeFilename(m.Subject))
	return filepath.Join(self.path, name)
}

func (self *FileSender) isDir() bool {
	if strings.HasSuffix(self.path, string(filepath.Separator)) ||
		strings.HasSuffix(self.path, "/") {
		return true
	}
	fi, err := os.Stat(self.path)
	return err == nil && fi.IsDir()
}

// Send writes m into the file returned by Path, creating missing directories.
func (self *FileSender) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	} else if err := ctx.Err(); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	path := self.Path(m)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrSendFailed, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	if _, err := m.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// sanitizeRegex matches characters that are not alphanumeric, dash,
// underscore, or dot
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}

	if s == "" {
		s = "message"
	}
	return strings.ToLower(s)
}

// PostmarkSender delivers messages through Postmark transactional API.
type PostmarkSender struct {
	client *postmark.Client
}

// PostmarkOption configures Postmark client of [PostmarkSender].
type PostmarkOption func(c *postmark.Client)

// WithPostmarkBaseURL sets root endpoint of Postmark API.
func WithPostmarkBaseURL(baseURL string) PostmarkOption {
	return func(c *postmark.Client) { c.BaseURL = strings.TrimRight(baseURL, "/") }
}

// WithPostmarkHTTPClient sets HTTP client for Postmark API requests. A nil
// client is ignored.
func WithPostmarkHTTPClient(client *http.Client) PostmarkOption {
	return func(c *postmark.Client) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// NewPostmarkSender returns a sender authenticated by given tokens. Both of
// them are required.
func NewPostmarkSender(serverToken, accountToken string, opts ...PostmarkOption,
) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: Postmark server token is required",
			ErrInvalidConfig)
	}
	if accountToken == "" {
		return nil, fmt.Errorf("%w: Postmark account token is required",
			ErrInvalidConfig)
	}
	client := postmark.NewClient(serverToken, accountToken)
	for _, fn := range opts {
		fn(client)
	}
	return &PostmarkSender{client: client}, nil
}

// Send delivers m to all of its recipients with single API request.
func (self *PostmarkSender) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	resp, err := self.client.SendEmail(ctx, postmark.Email{
		From:     m.From,
		To:       strings.Join(m.To, ","),
		Subject:  m.Subject,
		Tag:      "htmlfix",
		HTMLBody: m.HTMLBody,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
