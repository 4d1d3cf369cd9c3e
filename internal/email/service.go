package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dentalreserve/clinic-api/internal/config"
)

// Service sends transactional mail to patients
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, name, date, timeLabel string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, name, date, timeLabel string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Appointment confirmation")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour dental appointment is confirmed for %s at %s.\n\nIf you cannot attend, please contact the clinic to reschedule.",
		name, date, timeLabel,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
