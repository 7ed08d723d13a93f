package mail

import "fmt"

// OtpTemplate renders the verification-code email.
func OtpTemplate(otp string) (subject, html string) {
	subject = "Your Verification Code"
	html = fmt.Sprintf(
		"<p>Your OTP is <b>%s</b>.</p>\n<p>It expires in 5 minutes.</p>",
		otp,
	)
	return subject, html
}
