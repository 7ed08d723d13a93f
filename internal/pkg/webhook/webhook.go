package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Timeout bounds one delivery attempt. There are no retries.
const Timeout = 3 * time.Second

// Envelope is the fixed payload shape posted to project webhook URLs.
type Envelope struct {
	Event     string          `json:"event"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Notifier delivers best-effort event notifications. Failures are logged and
// swallowed; they never reach the caller's response path.
type Notifier struct {
	HTTPClient *http.Client
}

// NewNotifier builds a notifier with the fixed delivery timeout.
func NewNotifier() *Notifier {
	return &Notifier{
		HTTPClient: &http.Client{
			Timeout: Timeout,
		},
	}
}

// Send posts {event, timestamp, data} to the URL. A blank URL is a no-op.
// Any failure (timeout, network error, non-success status) is swallowed.
func (n *Notifier) Send(url, event string, data json.RawMessage) {
	if url == "" {
		return
	}

	envelope := Envelope{
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("webhook marshal failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("webhook request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		log.Printf("webhook delivery to %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("webhook delivery to %s returned status %d", url, resp.StatusCode)
	}
}
