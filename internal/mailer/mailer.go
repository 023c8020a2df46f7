package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender delivers a verification code to an email address. The contract is
// fire-and-forget: a nil error means the downstream gateway accepted the send.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// FunctionSender invokes a hosted mail function with a JSON body.
type FunctionSender struct {
	url    string
	client *http.Client
}

// NewFunctionSender builds a sender that POSTs to the configured function URL.
// The timeout bounds the whole send call.
func NewFunctionSender(url string, timeout time.Duration) *FunctionSender {
	return &FunctionSender{url: url, client: &http.Client{Timeout: timeout}}
}

type sendPayload struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Send posts the code to the mail function and treats any non-2xx status as a
// delivery failure.
func (s *FunctionSender) Send(ctx context.Context, email, code string) error {
	body, err := json.Marshal(sendPayload{Email: email, OTP: code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("invoke mail function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail function returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender is a stub implementation that writes codes to the logger. It backs
// development mode when no mail function is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a logging sender stub.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send writes the code to the structured logger.
func (s *LogSender) Send(_ context.Context, email, code string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("otp email (not delivered, no sender configured)", "email", email, "code", code)
	return nil
}
