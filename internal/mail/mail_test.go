package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationMessage(t *testing.T) {
	msg, err := ActivationMessage("a@example.com", "alice<script>", "http://host/api/v1/auth/activate/tok")
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, "Account Activation Email - alice<script>", msg.Subject)
	assert.Contains(t, msg.HTML, `href="http://host/api/v1/auth/activate/tok"`)
	assert.Contains(t, msg.HTML, "alice&lt;script&gt;")
}

func TestPasswordResetMessage(t *testing.T) {
	msg, err := PasswordResetMessage("a@example.com", "alice", "http://host/reset/tok")
	require.NoError(t, err)
	assert.Equal(t, "Forgot Password Email - alice", msg.Subject)
	assert.Contains(t, msg.HTML, "http://host/reset/tok")
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: "2525", Username: "bot@local", Password: "pw", From: "Admin"})

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.Equal(t, "bot@local", from)
		return nil
	}

	err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hi\r\n")
	assert.Contains(t, string(gotMsg), "<p>x</p>")

	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: "a@example.com"}), "relay down")
}
