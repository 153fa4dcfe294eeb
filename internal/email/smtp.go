// Package email sends transactional notification emails over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	Content  []byte
}

// LeadAlert carries the fields rendered into the lead notification email.
type LeadAlert struct {
	AgentName     string
	LeadName      string
	LeadEmail     string
	LeadPhone     string
	InterestLevel string
	Channel       string
	CapturedAt    time.Time
}

// TrainingFailure carries the fields rendered into the failed training email.
type TrainingFailure struct {
	AgentName  string
	SourceType string
	Reason     string
}

// SMTPSender renders HTML templates and delivers them via SMTP using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendLeadAlertEmail notifies an agent owner that a lead was captured.
func (s *SMTPSender) SendLeadAlertEmail(ctx context.Context, toEmail string, alert LeadAlert) error {
	subject := fmt.Sprintf(subjectLeadAlertFmt, alert.AgentName)
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "New lead captured",
			Heading: "New lead captured",
		},
		AgentName:     alert.AgentName,
		LeadName:      alert.LeadName,
		LeadEmail:     alert.LeadEmail,
		LeadPhone:     alert.LeadPhone,
		InterestLevel: alert.InterestLevel,
		Channel:       alert.Channel,
		CapturedAt:    alert.CapturedAt.Format("2006-01-02 15:04 MST"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendTrainingFailedEmail notifies an agent owner that a training source
// could not be ingested.
func (s *SMTPSender) SendTrainingFailedEmail(ctx context.Context, toEmail string, failure TrainingFailure) error {
	subject := fmt.Sprintf(subjectTrainingFailedFmt, failure.AgentName)
	content, err := renderEmailTemplate("training_failed.html", trainingFailedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Training failed",
			Heading: "Training failed",
		},
		AgentName:  failure.AgentName,
		SourceType: failure.SourceType,
		Reason:     failure.Reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
