package coordinator

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

// HTTPEscalationAPI fala com o servidor wakely pela API REST.
// Implementa EscalationAPI pra uso num build de device ou noutro serviço.
type HTTPEscalationAPI struct {
	BaseURL string // ex: https://api.wakely.app
	Token   string // bearer token do usuário logado
	Client  *http.Client
}

func (a HTTPEscalationAPI) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (a HTTPEscalationAPI) do(ctx context.Context, method string, path string, body any, out any) error {
	url := strings.TrimRight(a.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("wakely api error: status=%d body=%s", resp.StatusCode, string(raw))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (a HTTPEscalationAPI) Trigger(ctx context.Context, alarm Alarm, triggerTime time.Time) (string, error) {
	reqBody := map[string]any{
		"alarm_id":      alarm.ID,
		"trigger_time":  triggerTime,
		"delay_minutes": alarm.DelayMinutes,
		"friend_ids":    alarm.FriendIDs,
		"message":       alarm.Message,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/escalations", reqBody, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (a HTTPEscalationAPI) Dismiss(ctx context.Context, eventID string) error {
	return a.do(ctx, http.MethodPost, "/api/escalations/"+eventID+"/dismiss", nil, nil)
}

func (a HTTPEscalationAPI) Snooze(ctx context.Context, eventID string, additionalMinutes int) (time.Time, error) {
	reqBody := map[string]any{"additional_minutes": additionalMinutes}
	var out struct {
		EscalationTime time.Time `json:"escalation_time"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/escalations/"+eventID+"/snooze", reqBody, &out); err != nil {
		return time.Time{}, err
	}
	return out.EscalationTime, nil
}
