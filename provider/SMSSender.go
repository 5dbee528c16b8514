package provider

import (
	"context"

	"github.com/kevinburke/twilio-go"
	"go.uber.org/zap"
)

type TwilioSender struct {
	client *twilio.Client
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewClient(accountSid, authToken, nil),
		from:   from,
	}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	_, err := s.client.Messages.SendMessage(s.from, to, body, nil)
	return err
}

// LogSender writes messages to the log instead of sending them. Development only.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, body string) error {
	s.logger.Info("sms (not sent)", zap.String("to", to), zap.String("body", body))
	return nil
}
