package mailer

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"praklinik_backend/internals/configs"
)

// Mailer mengirim email transaksional (OTP reset & kredensial akun baru).
type Mailer interface {
	SendOTPEmail(to, name, otp string, expiryMinutes int) error
	SendAccountCredentialsEmail(to, name, identifier, password, role string) error
}

// New memilih backend: sendgrid bila API key tersedia, selain itu console.
func New() Mailer {
	if configs.SendgridAPIKey != "" {
		return &sendgridMailer{key: configs.SendgridAPIKey}
	}
	log.Println("[WARN] Mailer jalan di mode console (SENDGRID_API_KEY kosong)")
	return &consoleMailer{}
}

// =============================
// 📧 Sendgrid backend
// =============================
type sendgridMailer struct {
	key string
}

func (m *sendgridMailer) send(to, subject, plain string) error {
	from := sgmail.NewEmail(configs.MailFromName, configs.MailFromEmail)
	msg := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", to), plain, "")
	resp, err := sendgrid.NewSendClient(m.key).Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (m *sendgridMailer) SendOTPEmail(to, name, otp string, expiryMinutes int) error {
	subject := "Kode OTP Reset Password"
	body := fmt.Sprintf(
		"Halo %s,\n\nKode OTP reset password Anda: %s\nKode berlaku %d menit. Jangan bagikan kode ini kepada siapa pun.\n",
		name, otp, expiryMinutes,
	)
	return m.send(to, subject, body)
}

func (m *sendgridMailer) SendAccountCredentialsEmail(to, name, identifier, password, role string) error {
	subject := "Akun " + role + " Anda"
	body := fmt.Sprintf(
		"Halo %s,\n\nAkun %s Anda sudah dibuat.\nLogin: %s\nPassword: %s\n\nSegera ganti password setelah login pertama di %s.\n",
		name, role, identifier, password, configs.AppBaseURL,
	)
	return m.send(to, subject, body)
}

// =============================
// 🖥 Console backend (dev/test)
// =============================
type consoleMailer struct{}

func (m *consoleMailer) SendOTPEmail(to, name, otp string, expiryMinutes int) error {
	log.Printf("[MAIL] OTP untuk %s <%s>: %s (berlaku %d menit)", name, to, otp, expiryMinutes)
	return nil
}

func (m *consoleMailer) SendAccountCredentialsEmail(to, name, identifier, password, role string) error {
	log.Printf("[MAIL] Kredensial %s untuk %s <%s>: login=%s password=%s", role, name, to, identifier, password)
	return nil
}
