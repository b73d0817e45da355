package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSService sends text messages through the Twilio REST API.
type SMSService struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// NewSMSService creates the SMS sender. Returns nil when Twilio credentials
// are absent; a nil service degrades every send to a logged no-op.
func NewSMSService(accountSID, authToken, fromNumber string) *SMSService {
	if accountSID == "" || authToken == "" {
		return nil
	}
	return &SMSService{
		accountSID: accountSID,
		authToken:  authToken,
		from:       fromNumber,
		baseURL:    "https://api.twilio.com",
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SMSService) Send(ctx context.Context, phoneNumber, body string) error {
	if s == nil {
		log.Printf("[SMS] Twilio not configured, skipping")
		return nil
	}
	if phoneNumber == "" {
		return nil
	}
	// Twilio wants E.164; assume US when no country code was stored.
	to := phoneNumber
	if !strings.HasPrefix(to, "+") {
		to = "+1" + to
	}
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio send: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}
