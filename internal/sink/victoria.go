package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/event"
	"btc-price-publisher/internal/util"
)

const victoriaMetric = "bitcoin_price"

type victoriaSink struct {
	cfg    config.VictoriaConfig
	client *http.Client
}

func NewVictoria(cfg config.VictoriaConfig) Sink {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &victoriaSink{
		cfg:    cfg,
		client: util.NewHTTPClient(util.DefaultDur(cfg.Timeout, 10*time.Second)),
	}
}

func (v *victoriaSink) Name() string { return "victoria" }

// Push imports one sample per event in Prometheus text format.
func (v *victoriaSink) Push(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, e := range events {
		fmt.Fprintf(&buf, "%s{currency=\"%s\",source=\"%s\"} %s %d\n",
			victoriaMetric,
			escapeLabel(e.Currency),
			escapeLabel(e.Source),
			strconv.FormatFloat(e.Detail.Price, 'f', -1, 64),
			e.Time.UnixMilli(),
		)
	}
	body := buf.Bytes()

	r := v.cfg.Retry
	return util.Retry(ctx, r.MaxRetries+1, util.DefaultDur(r.Backoff, 500*time.Millisecond), util.DefaultDur(r.MaxBackoff, 5*time.Second), func() error {
		return v.send(ctx, body)
	})
}

func (v *victoriaSink) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.URL+"/api/v1/import/prometheus", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	if ua := v.cfg.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("victoria push failed: %s", resp.Status)
	}
	return nil
}

func (v *victoriaSink) Close() error {
	v.client.CloseIdleConnections()
	return nil
}

// minimal escape for label values
func escapeLabel(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}
