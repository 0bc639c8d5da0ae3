package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// SMSService delivers text messages through the Twilio Messages API. When the
// Twilio credentials are absent the service stays disabled and every send is
// skipped by the caller.
type SMSService struct {
	sid     string
	token   string
	from    string
	client  *http.Client
	log     *zap.SugaredLogger
	enabled bool
}

func NewSMSService(lc fx.Lifecycle, cfg *Config, log *zap.SugaredLogger) *SMSService {
	service := &SMSService{
		sid:     cfg.TwilioSID,
		token:   cfg.TwilioAuthToken,
		from:    cfg.TwilioPhone,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
		enabled: cfg.SMSConfigured(),
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if service.enabled {
				log.Info("SMS service initialized")
			} else {
				log.Info("Twilio not configured, SMS notifications disabled")
			}
			return nil
		},
	})
	return service
}

func (s *SMSService) Enabled() bool {
	return s != nil && s.enabled
}

func (s *SMSService) Send(ctx context.Context, to, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("sms transport not configured")
	}

	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf(twilioMessagesURL, s.sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.sid, s.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorResponse)
		return fmt.Errorf("failed to send SMS, status code: %d, error: %v", resp.StatusCode, errorResponse)
	}

	s.log.Infow("SMS sent", "to", to)
	return nil
}
