package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	ama "github.com/Tap30/ripple-ama"
	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/internal/hosttest"
	"github.com/Tap30/ripple-ama/metrics"
)

// SimulateCmd implements the 'simulate' command.
type SimulateCmd struct {
	Endpoint string   `help:"Override the configured endpoint"`
	Sink     string   `help:"Sink transport" enum:"http,nats,kafka" default:"http"`
	NatsURL  string   `name:"nats-url" help:"NATS server URL" default:"nats://127.0.0.1:4222"`
	Brokers  []string `help:"Kafka brokers" default:"localhost:9092"`
	Topic    string   `help:"NATS subject or Kafka topic" default:"ama.events"`

	Type       string `help:"Request type" enum:"LaunchRequest,IntentRequest,SessionEndedRequest" default:"LaunchRequest"`
	Session    string `help:"Session id" default:"amzn1.echo-api.session.playground"`
	User       string `help:"User id" default:"amzn1.ask.account.playground"`
	Locale     string `help:"Request locale" default:"en-US"`
	Intent     string `help:"Intent name for IntentRequest"`
	State      string `help:"State the request starts in" default:"entry"`
	To         string `help:"State the handler transitions to" default:"die"`
	Reply      string `help:"Reply identifier"`
	NewSession bool   `name:"new-session" help:"Raise the session started hook"`
	Reason     string `help:"SessionEndedRequest reason"`
	Fail       bool   `help:"Make the handler fail"`
	Trigger    bool   `help:"Ask the playground sink to answer with 500"`
}

func (s *SimulateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Endpoint != "" {
		cfg.Endpoint = s.Endpoint
	}

	sink, closeSink, err := s.sink()
	if err != nil {
		return err
	}
	defer closeSink()

	reg := prometheus.NewRegistry()
	opts := []ama.Option{
		ama.WithLogger(adapters.NewSlogLoggerAdapter(g.Logger)),
		ama.WithRecorder(metrics.NewPrometheusRecorder(reg)),
	}
	if sink != nil {
		opts = append(opts, ama.WithSink(sink))
	}

	host := hosttest.New()
	p, err := ama.Register(host, cfg, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	req := &ama.Request{
		Type:       s.Type,
		SessionID:  s.Session,
		NewSession: s.NewSession,
		UserID:     s.User,
		Locale:     s.Locale,
		Intent:     s.Intent,
		State:      s.State,
		Reason:     s.Reason,
	}
	if s.Reason == ama.SessionEndedReasonError {
		req.Error = &ama.RequestError{Type: "INTERNAL_ERROR", Message: "simulated session error"}
	}

	out := host.Dispatch(context.Background(), req, s.handler)
	for i, result := range out.Wait() {
		switch {
		case result.Suppressed:
			g.Logger.Info("Flush suppressed", "flush", i)
		case result.Err != nil:
			g.Logger.Warn("Flush failed", "flush", i, "batch", result.BatchID, "error", result.Err)
		case result.Events == 0:
			g.Logger.Debug("Nothing flushed", "flush", i)
		default:
			g.Logger.Info("Flush sent", "flush", i, "batch", result.BatchID, "events", result.Events)
		}
	}
	if out.Err != nil {
		g.Logger.Info("Handler failed", "error", out.Err)
	}
	return logMetrics(g, reg)
}

// logMetrics prints the recorder's counters once the simulation is done.
func logMetrics(g *Global, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]any, 0, 2*len(m.GetLabel())+4)
			labels = append(labels, "metric", mf.GetName())
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				labels = append(labels, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				labels = append(labels, "count", m.GetHistogram().GetSampleCount())
			}
			g.Logger.Debug("Metric", labels...)
		}
	}
	return nil
}

func (s *SimulateCmd) handler(_ context.Context, req *ama.Request) (*ama.Transition, error) {
	if s.Trigger {
		req.AMA.LogEvent("Playground", ama.Structured{"trigger_error": true})
	}
	if s.Fail {
		return nil, errors.New("simulated handler failure")
	}
	return &ama.Transition{To: s.To, Reply: s.Reply}, nil
}

func (s *SimulateCmd) sink() (ama.SinkAdapter, func(), error) {
	switch s.Sink {
	case "nats":
		sink, err := adapters.NewNATSAdapter(s.NatsURL, s.Topic)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	case "kafka":
		sink, err := adapters.NewKafkaAdapter(s.Brokers, s.Topic)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	default:
		// the plugin builds the HTTP sink from the configuration
		return nil, func() {}, nil
	}
}

// loadConfig reads path when it exists and the AMA_* environment otherwise.
func loadConfig(path string) (ama.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return ama.Config{}, err
		}
		path = ""
	}
	cfg, err := ama.LoadConfig(path)
	if err != nil {
		return ama.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
