package service

import (
	"crypto/tls"
	"fmt"
	"html"

	"doodh-waitlist/util"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
	sender string
}

func NewEmailService(cfg util.SMTPConfig) *EmailService {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &EmailService{
		dialer: dialer,
		sender: cfg.SenderName,
	}
}

// SendWelcome tells a verified signup they are on the waitlist
func (s *EmailService) SendWelcome(toEmail, name, brand string) error {
	return s.dialer.DialAndSend(s.welcomeMessage(toEmail, name, brand))
}

func (s *EmailService) welcomeMessage(toEmail, name, brand string) *gomail.Message {
	m := gomail.NewMessage()

	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.sender, s.dialer.Username))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("You're on the %s waitlist", brand))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Hello %s!</h2>
			<p>Your phone number is verified and you are on the %s waitlist.</p>
			<p>We will let you know as soon as we deliver to your area.</p>
		</div>
	`, html.EscapeString(name), html.EscapeString(brand))
	m.SetBody("text/html", body)
	return m
}
