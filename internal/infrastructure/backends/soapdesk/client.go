package soapdesk

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"deskhub/internal/shared/logger"
)

// client speaks the legacy desk's SOAP dialect over HTTP POST. Sessions are
// scoped to the end user, so every operation authenticates from scratch and
// the underlying connection is never pooled across calls.
type client struct {
	url       string
	namespace string
	timeout   time.Duration
	logger    logger.Interface
}

func newClient(url, namespace string, timeout time.Duration, log logger.Interface) *client {
	return &client{
		url:       url,
		namespace: namespace,
		timeout:   timeout,
		logger:    log,
	}
}

// login authenticates with the user's own credentials and returns the
// session token subsequent actions in the same operation carry.
func (c *client) login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.call(ctx, "Login", loginRequest{
		NS:       c.namespace,
		Login:    username,
		Password: password,
	}, "", &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login returned no session token")
	}
	return resp.Token, nil
}

// call POSTs one SOAP action and decodes the response body into out. A fresh
// transport is used per call; keep-alives are disabled on purpose.
func (c *client) call(ctx context.Context, action string, payload any, token string, out any) error {
	envelope := requestEnvelope{
		NSSoap: soapEnvelopeNS,
		Body:   requestBody{Payload: payload},
	}
	if token != "" {
		envelope.Header = &soapHeader{Session: &sessionHeader{NS: c.namespace, Token: token}}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(envelope); err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", action, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", c.namespace+"#"+action)

	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Faults arrive with a 500 and a Fault element in the body.
		var fault soapFault
		if xml.Unmarshal(data, &fault) == nil && fault.String != "" {
			return fmt.Errorf("%s fault: %s (%s)", action, fault.String, fault.Code)
		}
		return fmt.Errorf("%s returned status %d", action, resp.StatusCode)
	}

	if err := xml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	c.logger.Debugw("soap call completed", "action", action, "status", resp.StatusCode)
	return nil
}
