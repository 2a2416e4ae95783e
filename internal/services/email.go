package services

import (
	"fmt"
	"net/smtp"

	"portfolio/internal/config"
)

// EmailSender отправляет письмо; реализован EmailService, в тестах подменяется.
type EmailSender interface {
	Send(to []string, subject, body string) error
	SendHTML(to []string, subject, body string) error
}

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewEmailService(cfg *config.Config) *EmailService {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &EmailService{
		auth: auth,
		from: cfg.SMTPUser,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	return s.send(to, subject, "text/plain", body)
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	return s.send(to, subject, "text/html", body)
}

func (s *EmailService) send(to []string, subject, contentType, body string) error {
	if s.host == "" {
		return fmt.Errorf("smtp is not configured")
	}
	msg := []byte("From: " + s.from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}
