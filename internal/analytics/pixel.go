package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// PixelAPIVersion is the Graph API version of the conversions endpoint.
const PixelAPIVersion = "v21.0"

// Pixel forwards events to the Meta Conversions API. Each Track sends in
// the background; failures are logged and dropped. Events tracked after
// Close are dropped.
type Pixel struct {
	Endpoint    string
	AccessToken string
	HTTP        *http.Client

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPixel creates a sink for a pixel ID.
func NewPixel(pixelID, accessToken string) *Pixel {
	return &Pixel{
		Endpoint:    fmt.Sprintf("https://graph.facebook.com/%s/%s/events", PixelAPIVersion, url.PathEscape(pixelID)),
		AccessToken: accessToken,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
	}
}

type pixelPayload struct {
	Data []pixelEvent `json:"data"`
}

type pixelEvent struct {
	EventName      string          `json:"event_name"`
	EventTime      int64           `json:"event_time"`
	EventID        string          `json:"event_id"`
	ActionSource   string          `json:"action_source"`
	EventSourceURL string          `json:"event_source_url,omitempty"`
	CustomData     pixelCustomData `json:"custom_data"`
}

type pixelCustomData struct {
	Currency    string   `json:"currency"`
	Value       float64  `json:"value"`
	ContentIDs  []string `json:"content_ids,omitempty"`
	ContentName string   `json:"content_name,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
}

// Track implements Sink.
func (p *Pixel) Track(ctx context.Context, e Event) {
	ctx = context.WithoutCancel(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		slog.Warn("pixel event dropped after close", "event", e.Name, "event_id", e.ID)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if err := p.send(ctx, e); err != nil {
			slog.Warn("pixel event dropped", "event", e.Name, "event_id", e.ID, "error", err)
		}
	}()
}

// Wait blocks until every background send has finished.
func (p *Pixel) Wait() {
	p.wg.Wait()
}

// Close stops accepting events and waits for pending sends.
func (p *Pixel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pixel) send(ctx context.Context, e Event) error {
	pe := pixelEvent{
		EventName:      string(e.Name),
		EventTime:      e.Time.Unix(),
		EventID:        e.ID,
		ActionSource:   "website",
		EventSourceURL: e.SourceURL,
		CustomData: pixelCustomData{
			Currency:    e.Currency,
			Value:       e.Value,
			ContentIDs:  e.ContentIDs,
			ContentName: e.ContentName,
		},
	}
	if len(e.ContentIDs) > 0 {
		pe.CustomData.ContentType = "product"
	}

	body, err := json.Marshal(pixelPayload{Data: []pixelEvent{pe}})
	if err != nil {
		return fmt.Errorf("encoding pixel event: %w", err)
	}

	endpoint := p.Endpoint + "?access_token=" + url.QueryEscape(p.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building pixel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("sending pixel event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pixel endpoint returned %d", resp.StatusCode)
	}
	return nil
}
