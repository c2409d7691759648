package mail

import (
	"fmt"
)

// PasswordResetEmail builds the subject and bodies for a reset mail.
func PasswordResetEmail(username, resetURL string) (subject, htmlBody, textBody string) {
	subject = "LiftLog - Password Reset Request"

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px; text-align: center;">
    <h1 style="color: #0d6efd;">LiftLog</h1>
    <h2 style="color: #495057;">Password Reset Request</h2>
    <p>Hello <strong>%s</strong>,</p>
    <p>We received a request to reset your password. Click the button below to set a new password:</p>
    <a href="%s" style="background-color: #0d6efd; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Reset Password</a>
    <p style="font-size: 14px; color: #6c757d;">This link will expire in 1 hour.</p>
    <p style="font-size: 14px; color: #6c757d;">If you didn't request this password reset, please ignore this email. Your password will remain unchanged.</p>
  </div>
</body>
</html>`, username, resetURL)

	textBody = fmt.Sprintf(`Hello %s,

We received a request to reset your LiftLog password.

Open this link to set a new password (valid for 1 hour):
%s

If you didn't request this password reset, please ignore this email.
`, username, resetURL)

	return subject, htmlBody, textBody
}
