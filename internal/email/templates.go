package email

import (
	"bytes"
	"html/template"
)

// VerificationCodeSubject - тема письма с кодом восстановления
const VerificationCodeSubject = "Verification Code - Sohag Store"

var verificationCodeTemplate = template.Must(template.New("verification_code").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="color: #333333; margin-top: 0;">Password Reset</h2>
    <p style="color: #555555;">Use the verification code below to reset your password:</p>
    <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #2c3e50; text-align: center; margin: 24px 0;">{{.VerificationCode}}</p>
    <p style="color: #555555;">The code expires in 24 hours. If you did not request a password reset, you can ignore this email.</p>
    <p style="color: #999999; font-size: 12px;">Sohag Store</p>
  </div>
</body>
</html>`))

// RenderVerificationCode рендерит HTML письма с кодом восстановления
func RenderVerificationCode(code string) (string, error) {
	var buf bytes.Buffer
	err := verificationCodeTemplate.Execute(&buf, map[string]string{
		"VerificationCode": code,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
