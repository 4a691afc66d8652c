package sink

import (
	"strings"

	"github.com/sirupsen/logrus"

	"btc-price-publisher/internal/config"
)

// FromConfig builds every enabled sink. The result is empty when nothing is configured.
func FromConfig(cfg config.Sinks, log logrus.FieldLogger) []Sink {
	var sinks []Sink
	if cfg.Log.Enable {
		sinks = append(sinks, NewLog(log.WithField("sink", "log")))
	}
	if strings.TrimSpace(cfg.Loki.URL) != "" {
		sinks = append(sinks, NewLoki(cfg.Loki))
	}
	if strings.TrimSpace(cfg.Victoria.URL) != "" {
		sinks = append(sinks, NewVictoria(cfg.Victoria))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		sinks = append(sinks, NewKafka(cfg.Kafka))
	}
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		sinks = append(sinks, NewRedis(cfg.Redis))
	}
	return sinks
}
