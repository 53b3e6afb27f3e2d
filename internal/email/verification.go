package email

import "fmt"

// VerificationEmail собирает тему и оба тела письма подтверждения email.
func VerificationEmail(link string) (subject, text, html string) {
	subject = "Verify Your Email Address"
	text = fmt.Sprintf("Please verify your email by visiting this link: %s\n\nThis link will expire in 1 hour.", link)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
  <h2>Welcome to BlogKeeper!</h2>
  <p>Thank you for registering. Please verify your email address by clicking the link below:</p>
  <p><a href="%s">Verify Email</a></p>
  <p style="font-size: 12px; color: #aaa;">This link will expire in 1 hour. If you didn't request this email, you can safely ignore it.</p>
</div>`, link)
	return subject, text, html
}
