package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	body  string
	attrs map[string]string
	err   error
}

func (f *fakeQueue) SendMessage(_ context.Context, body string, attributes map[string]string) error {
	f.body, f.attrs = body, attributes
	return f.err
}

func TestSMTPMailer(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Username: "noreply@shop.example.com", Password: "app-pass"})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err = m.Send(context.Background(), "buyer@example.com", "Password Reset - E-Commerce", "<p>hi</p>", "Password Reset")
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com:587", gotAddr)
	assert.Equal(t, "noreply@shop.example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.True(t, strings.HasPrefix(msg, "From: ShopSwift <noreply@shop.example.com>\r\n"))
	assert.Contains(t, msg, "Subject: Password Reset - E-Commerce\r\n")
	assert.Contains(t, msg, "X-Mail-Category: Password Reset\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}

func TestSMTPMailerErrors(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{})
	assert.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Username: "u", Password: "p"})
	require.NoError(t, err)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
	assert.ErrorContains(t, m.Send(context.Background(), "a@b.co", "s", "b", ""), "535 auth failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "a@b.co", "s", "b", ""), context.Canceled)
}

func TestSQSMailer(t *testing.T) {
	q := &fakeQueue{}
	m := NewSQSMailer(q)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	require.NoError(t, m.Send(context.Background(), "buyer@example.com", "Password Reset - E-Commerce", "<p>x</p>", "Password Reset"))

	var msg EmailMessage
	require.NoError(t, json.Unmarshal([]byte(q.body), &msg))
	assert.Equal(t, EmailMessage{
		EventType:   "email.send",
		Recipient:   "buyer@example.com",
		Subject:     "Password Reset - E-Commerce",
		Body:        "<p>x</p>",
		Category:    "Password Reset",
		RequestedAt: fixed,
	}, msg)
	assert.Equal(t, "Password Reset", q.attrs["category"])

	q.err = errors.New("queue down")
	assert.Error(t, m.Send(context.Background(), "a@b.co", "s", "b", ""))
}

func TestNew(t *testing.T) {
	m, err := New(Config{Transport: "sqs"}, &fakeQueue{})
	require.NoError(t, err)
	assert.IsType(t, &SQSMailer{}, m)

	m, err = New(Config{SMTP: SMTPConfig{Username: "u", Password: "p"}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(Config{Transport: "sqs"}, nil)
	assert.Error(t, err)
	_, err = New(Config{Transport: "pigeon"}, nil)
	assert.Error(t, err)
}
