package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/strikezone/league-system/config"
)

const smtpTLSPort = 465

// EmailService отправляет уведомления лиги по SMTP. Все письма — HTML.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	client, err := s.dial()
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err := w.Write(s.buildMessage(to, subject, body)); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}
	return nil
}

// dial устанавливает соединение: прямой TLS на 465, иначе STARTTLS.
func (s *EmailService) dial() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	if s.cfg.SMTPPort == smtpTLSPort {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("ошибка соединения SMTP: %w", err)
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка команды STARTTLS: %w", err)
	}
	return client, nil
}

func (s *EmailService) buildMessage(to []string, subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.SMTPFrom + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")
	return []byte(msg.String())
}

func (s *EmailService) SendWelcomeEmail(userEmail, firstName string) error {
	subject := "Добро пожаловать в лигу!"
	body := fmt.Sprintf(
		"<p>%s, ваш аккаунт создан.</p><p>Расписание турниров и таблица сезона: <a href=%q>%s</a></p>",
		firstName, s.cfg.PublicURL, s.cfg.PublicURL,
	)
	return s.SendEmail([]string{userEmail}, subject, body)
}

func (s *EmailService) SendTournamentCompletedEmail(email, tournamentName string) error {
	subject := fmt.Sprintf("Турнир '%s' завершён", tournamentName)
	body := fmt.Sprintf(
		"<p>Турнир '%s' завершён, итоговые места и рейтинговые очки начислены.</p><p>Результаты: <a href=%q>%s</a></p>",
		tournamentName, s.cfg.PublicURL, s.cfg.PublicURL,
	)
	return s.SendEmail([]string{email}, subject, body)
}
