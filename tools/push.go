package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PushAPIError carrega a resposta crua do gateway de push pra facilitar debug.
type PushAPIError struct {
	StatusCode int
	Body       string
}

func (e PushAPIError) Error() string {
	return fmt.Sprintf("push api error: status=%d body=%s", e.StatusCode, e.Body)
}

// PushClient is a thin client for the push-notification gateway (FCM-style
// HTTP API). O transporte é best-effort: o chamador trata falha como log,
// nunca como erro fatal do sweep.
type PushClient struct {
	Endpoint  string // ex: https://fcm.googleapis.com/fcm/send
	ServerKey string
}

// Send entrega uma notificação para um device token. O campo data carrega os
// metadados estruturados (type/user_id/event_id) usados pelo deep-link no app.
func (c PushClient) Send(ctx context.Context, token string, title string, body string, data map[string]string) error {
	endpoint := strings.TrimSpace(c.Endpoint)
	key := strings.TrimSpace(c.ServerKey)
	if endpoint == "" || key == "" {
		return fmt.Errorf("push endpoint or server key not set")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty push token")
	}

	reqBody := map[string]any{
		"to": token,
		"notification": map[string]any{
			"title": title,
			"body":  body,
		},
		"data": data,
	}

	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "key="+key)
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return PushAPIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}
