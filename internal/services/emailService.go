package services

import (
	"os"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from string
	host string
}

func NewEmailService() EmailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	return &emailService{
		from: os.Getenv("SMTP_USERNAME"),
		host: host,
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	d := gomail.NewDialer(e.host, 587, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))

	return d.DialAndSend(m)
}
