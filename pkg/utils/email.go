package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "GiveBridge"
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #4CAF50; margin: 0;">GiveBridge</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 GiveBridge. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for key, value := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	if err := smtp.SendMail(addr, auth, emailFrom, to, []byte(message.String())); err != nil {
		log.Printf("Failed to send email to %v: %v", to, err)
		return err
	}

	return nil
}

// SendPasswordResetOTP emails a password reset code to the user.
func SendPasswordResetOTP(email, otp string) error {
	subject := "GiveBridge Password Reset Code"
	body := emailHeader + fmt.Sprintf(`
		<h3>Password Reset Requested</h3>
		<p>Use the code below to reset your password. It expires in 15 minutes.</p>
		<div style="text-align: center; margin: 30px 0;">
			<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</span>
		</div>
		<p>If you did not request a password reset, you can ignore this email.</p>
	`, otp) + emailFooter

	return sendEmail([]string{email}, subject, body)
}

// SendDonationStatusEmail notifies a donor that their donation moved to a
// new lifecycle status.
func SendDonationStatusEmail(email, itemName, status string) error {
	subject := fmt.Sprintf("Your donation is now %s", status)
	body := emailHeader + fmt.Sprintf(`
		<h3>Donation Update</h3>
		<p>Your donation <strong>%s</strong> is now <strong>%s</strong>.</p>
		<p>Log in to your dashboard to see the details.</p>
	`, itemName, status) + emailFooter

	return sendEmail([]string{email}, subject, body)
}
