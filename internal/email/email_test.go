package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationEmail(t *testing.T) {
	link := "http://localhost:8081/verify-email?token=abc"
	subject, text, html := VerificationEmail(link)

	assert.NotEmpty(t, subject)
	assert.Contains(t, text, link)
	assert.Contains(t, html, `href="`+link+`"`)
	assert.Contains(t, text, "expire in 1 hour")
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "user@example.com", "Hi", "plain body", "<b>html body</b>"))

	assert.Contains(t, msg, "From: noreply@example.com\r\n")
	assert.Contains(t, msg, "To: user@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "plain body")
	assert.Contains(t, msg, "<b>html body</b>")
	// закрывающая граница multipart на месте
	assert.True(t, strings.HasSuffix(msg, "--blogkeeper-alt--\r\n"))
}
