package service

import (
	"bytes"
	"testing"

	"doodh-waitlist/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_WelcomeMessage(t *testing.T) {
	svc := NewEmailService(util.SMTPConfig{
		Host:       "smtp.example.com",
		Port:       587,
		User:       "hello@doodh.example",
		SenderName: "Doodh & Co.",
	})

	m := svc.welcomeMessage("asha@example.com", "Asha <Rao>", "Doodh & Co.")

	assert.Equal(t, []string{"asha@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Doodh & Co. <hello@doodh.example>"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Asha &lt;Rao&gt;")
}
