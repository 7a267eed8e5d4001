package sms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioClient sends SMS through the Twilio Messages REST API.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

// NewTwilioClient constructs a TwilioClient.
func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    defaultTwilioBaseURL,
		HTTPClient: http.DefaultClient,
	}
}

// Send submits one message and waits for the API response.
func (t *TwilioClient) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", t.From)
	form.Set("To", to)
	form.Set("Body", body)

	base := t.BaseURL
	if base == "" {
		base = defaultTwilioBaseURL
	}
	endpoint := base + "/2010-04-01/Accounts/" + t.AccountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{Status: res.StatusCode, Body: string(payload)}
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// APIError reports a non-2xx response from the provider.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sms: provider returned status %d", e.Status)
}

var _ Sender = (*TwilioClient)(nil)
