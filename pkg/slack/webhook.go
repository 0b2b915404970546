package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// PostWebhook posts payload to an incoming webhook URL.
func (s *slackImpl) PostWebhook(ctx context.Context, webhookURL string, payload *Payload) error {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return errWebhookRequired
	}
	if err := s.wait(ctx, webhookURL); err != nil {
		return err
	}

	status, header, body, err := s.sendRequest(ctx, webhookURL, "", payload)
	if err != nil {
		return err
	}

	// Incoming webhooks answer 200 "ok" on success and a plain-text code otherwise.
	if status != http.StatusOK {
		return &APIError{
			StatusCode: status,
			Code:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter(header),
		}
	}
	return nil
}

// PostMessage posts payload with chat.postMessage.
func (s *slackImpl) PostMessage(ctx context.Context, token string, payload *Payload) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errTokenRequired
	}
	if payload == nil || strings.TrimSpace(payload.Channel) == "" {
		return errChannelRequired
	}
	if err := s.wait(ctx, token+"|"+payload.Channel); err != nil {
		return err
	}

	status, header, body, err := s.sendRequest(ctx, s.config.APIBaseURL+postMessagePath, token, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{StatusCode: status, RetryAfter: retryAfter(header)}
	}

	// The Web API answers 200 even for failures; the verdict is in the body.
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("slack: decode response: %w", err)
	}
	if !resp.OK {
		return &APIError{StatusCode: status, Code: resp.Error, RetryAfter: retryAfter(header)}
	}
	return nil
}

// ReportBug posts an error report to the ops webhook.
func (s *slackImpl) ReportBug(ctx context.Context, message string) error {
	if !s.OpsEnabled() {
		return errOpsDisabled
	}

	payload := &Payload{
		Text: ReportBugTitle,
		Attachments: []Attachment{{
			Fallback: ReportBugTitle,
			Color:    ColorDanger,
			Text:     fmt.Sprintf("```%s```", Truncate(message, MaxTextLength-6)),
			Ts:       time.Now().Unix(),
		}},
	}
	return s.sendWithRetry(ctx, payload)
}

// sendWithRetry posts to the ops webhook, retrying temporary failures.
func (s *slackImpl) sendWithRetry(ctx context.Context, payload *Payload) error {
	var lastErr error

	for attempt := 0; attempt <= s.config.RetryCount; attempt++ {
		if attempt > 0 {
			if s.l != nil {
				s.l.Infof(ctx, "pkg.slack.webhook.sendWithRetry: retrying attempt %d/%d", attempt, s.config.RetryCount)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}

		err := s.PostWebhook(ctx, s.config.OpsWebhookURL, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		if s.l != nil {
			s.l.Warnf(ctx, "pkg.slack.webhook.sendWithRetry: attempt %d failed: %v", attempt+1, err)
		}
		if apiErr, ok := err.(*APIError); ok && !apiErr.Temporary() {
			break
		}
	}

	return fmt.Errorf("failed after retries, last error: %w", lastErr)
}

func (s *slackImpl) sendRequest(ctx context.Context, url, token string, payload *Payload) (int, http.Header, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, resp.Header, body, nil
}

// wait blocks until the destination's limiter admits one request.
func (s *slackImpl) wait(ctx context.Context, key string) error {
	s.mu.Lock()
	now := s.now()
	s.sweepLimiters(now)
	e, ok := s.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(s.config.RatePerSecond), s.config.Burst)}
		s.limiters[key] = e
	}
	e.lastUsed = now
	s.mu.Unlock()

	return e.lim.Wait(ctx)
}

// sweepLimiters drops limiters idle for limiterIdleTTL. An idle limiter has
// refilled its burst, so a fresh one admits the same traffic. Callers hold s.mu.
func (s *slackImpl) sweepLimiters(now time.Time) {
	if now.Sub(s.lastSweep) < limiterIdleTTL {
		return
	}
	s.lastSweep = now
	for key, e := range s.limiters {
		if now.Sub(e.lastUsed) >= limiterIdleTTL {
			delete(s.limiters, key)
		}
	}
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Truncate shortens s to at most max bytes, marking the cut with "...".
// The cut never splits a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
