package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"curbside/internal/sentinel"
	"curbside/internal/subscriber/models"
)

// Source is the external schedule feed: a lookup keyed by normalized address.
type Source interface {
	Lookup(ctx context.Context, address models.Address) (*Payload, error)
}

// HTTPSource calls the municipal garbage-day service over HTTP. Every call is
// bounded by the client timeout; a timeout surfaces as an unavailable error,
// never as a fatal one.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
}

// HTTPSourceOption configures the HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient allows injecting a custom http.Client, mainly for tests.
func WithHTTPClient(c *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// WithTracer allows injecting a pre-configured tracer.
func WithTracer(t trace.Tracer) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.tracer = t
	}
}

// NewHTTPSource constructs an HTTP-backed schedule source.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: baseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: timeout}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("curbside/schedule")
	}
	return s
}

// Lookup fetches the schedule payload for one address. The query shape
// mirrors what the city service expects: address components plus fixed
// redir/embed/method parameters.
func (s *HTTPSource) Lookup(ctx context.Context, address models.Address) (*Payload, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.lookup", trace.WithAttributes(
		attribute.String("address", address.FullAddress),
	))
	payload, err := s.lookup(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return payload, err
}

func (s *HTTPSource) lookup(ctx context.Context, address models.Address) (*Payload, error) {
	params := url.Values{}
	params.Set("redir", "y")
	params.Set("embed", "y")
	params.Set("laddr", address.HouseNumber)
	params.Set("sdir", address.StreetDirection)
	params.Set("sname", address.StreetName)
	params.Set("stype", address.StreetType)
	params.Set("faddr", address.FullAddress)
	params.Set("method", "na")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call schedule feed: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schedule feed returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed response: %w: %w", sentinel.ErrUnavailable, err)
	}

	s.logger.Debug("schedule feed response",
		"address", address.FullAddress,
		"success", payload.Success,
	)
	return &payload, nil
}
