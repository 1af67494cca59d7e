package mail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/gomail.v2"
)

func newTestMailer() *Mailer {
	return NewMailer("smtp.example.com", 587, "user", "pass", "BitBuddies", "no-reply@bitbuddies.dev", "http://localhost:3000")
}

func captureMessages(t *testing.T) *[]*gomail.Message {
	t.Helper()
	orig := dialAndSend
	t.Cleanup(func() { dialAndSend = orig })

	var sent []*gomail.Message
	dialAndSend = func(_ *gomail.Dialer, m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	return &sent
}

func messageBody(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf writerToBuffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	return buf.String()
}

type writerToBuffer struct {
	data []byte
}

func (b *writerToBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *writerToBuffer) String() string { return string(b.data) }

func TestSendVerificationEmail(t *testing.T) {
	sent := captureMessages(t)
	m := newTestMailer()

	err := m.SendVerificationEmail("dev@mail.com", "tok-123")
	assert.NoError(t, err)
	assert.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.Equal(t, []string{"dev@mail.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Verify account"}, msg.GetHeader("Subject"))

	body := messageBody(t, msg)
	assert.Contains(t, body, "/verify/tok-123")
}

func TestSendPasswordResetEmail(t *testing.T) {
	sent := captureMessages(t)
	m := newTestMailer()

	err := m.SendPasswordResetEmail("dev@mail.com", "tok-456")
	assert.NoError(t, err)
	assert.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.Equal(t, []string{"Forgot password"}, msg.GetHeader("Subject"))

	body := messageBody(t, msg)
	assert.Contains(t, body, "/reset-password/tok-456")
}

func TestSendDialError(t *testing.T) {
	orig := dialAndSend
	t.Cleanup(func() { dialAndSend = orig })
	dialAndSend = func(_ *gomail.Dialer, _ *gomail.Message) error {
		return errors.New("dial failed")
	}

	m := newTestMailer()
	err := m.SendVerificationEmail("dev@mail.com", "tok")
	assert.Error(t, err)
}

func TestSendUnknownTemplate(t *testing.T) {
	m := newTestMailer()
	err := m.send("dev@mail.com", "Subject", "missing", templateData{})
	assert.Error(t, err)
}
