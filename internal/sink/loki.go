package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/event"
	"btc-price-publisher/internal/util"
)

type lokiSink struct {
	cfg    config.LokiConfig
	client *http.Client
}

func NewLoki(cfg config.LokiConfig) Sink {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &lokiSink{cfg: cfg, client: util.NewHTTPClient(util.DefaultDur(cfg.Timeout, 10*time.Second))}
}

func (l *lokiSink) Name() string { return "loki" }

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func (l *lokiSink) Push(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	payload := struct {
		Streams []lokiStream `json:"streams"`
	}{}
	for _, e := range events {
		line, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("loki: encode event %s: %w", e.ID, err)
		}
		lbls := map[string]string{
			"job":      l.cfg.Job,
			"source":   e.Source,
			"type":     e.Type,
			"currency": e.Currency,
		}
		// Loki expects ns timestamp as a decimal string
		payload.Streams = append(payload.Streams, lokiStream{
			Stream: lbls,
			Values: [][2]string{{strconv.FormatInt(e.Time.UnixNano(), 10), string(line)}},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("loki: encode payload: %w", err)
	}

	r := l.cfg.Retry
	return util.Retry(ctx, r.MaxRetries+1, util.DefaultDur(r.Backoff, 500*time.Millisecond), util.DefaultDur(r.MaxBackoff, 5*time.Second), func() error {
		return l.send(ctx, body)
	})
}

func (l *lokiSink) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.URL+"/loki/api/v1/push", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if l.cfg.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", l.cfg.TenantID)
	}
	if ua := l.cfg.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("loki push failed http %d", resp.StatusCode)
	}
	return nil
}

func (l *lokiSink) Close() error {
	l.client.CloseIdleConnections()
	return nil
}
