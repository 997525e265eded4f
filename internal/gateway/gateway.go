// Package gateway is the single choke point for outbound calls to the
// backend. It attaches the bearer credential to every request, detects
// authorization failures, and silently renews the access credential with at
// most one retry per original request.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
	"praxis/internal/platform/metrics"
	"praxis/internal/platform/tracer"
	dErrors "praxis/pkg/domain-errors"
)

const (
	outcomeSuccess      = "success"
	outcomeRenewed      = "renewed"
	outcomeUnauthorized = "unauthorized"
	outcomeNetworkError = "network_error"
)

// Gateway wraps an *http.Client so that every request carries the current
// access credential and a 401 triggers exactly one renewal followed by exactly
// one resubmission. Concurrent renewals are coalesced into a single in-flight
// refresh call; all waiters share its outcome.
type Gateway struct {
	creds      credentials.Store
	refreshURL string
	httpClient *http.Client
	renewals   singleflight.Group
	onExpired  func()
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithMetrics sets the Prometheus metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithTracer sets the tracer used for request and renewal spans.
func WithTracer(t tracer.Tracer) Option {
	return func(g *Gateway) { g.tracer = t }
}

// WithHTTPClient replaces the underlying transport client. The client's
// timeout is the per-request timeout; a timeout is a network failure and never
// triggers renewal.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithSessionExpiredHook registers the callback invoked exactly once per
// terminal renewal failure, after credentials are cleared. The lifecycle wires
// the login redirect here.
func WithSessionExpiredHook(hook func()) Option {
	return func(g *Gateway) { g.onExpired = hook }
}

// New creates a gateway renewing against refreshURL and reading credentials
// from creds.
func New(creds credentials.Store, refreshURL string, opts ...Option) *Gateway {
	g := &Gateway{
		creds:      creds,
		refreshURL: refreshURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.tracer == nil {
		g.tracer = tracer.NewNoop()
	}
	if g.onExpired == nil {
		g.onExpired = func() {}
	}
	return g
}

// Do sends the request with the current credential attached. On a 401 that has
// not yet been retried it renews the access credential and resubmits once;
// everything else propagates unchanged. Transport errors are returned as
// network domain errors.
//
// Requests with a non-replayable body (Body set but GetBody nil) are sent but
// cannot be resubmitted; a 401 on such a request propagates as-is.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx, span := g.tracer.Start(req.Context(), tracer.SpanGatewayRequest,
		tracer.String(tracer.AttrMethod, req.Method),
		tracer.String(tracer.AttrPath, req.URL.Path),
	)

	pair, credErr := g.creds.Get()
	hasCreds := credErr == nil && pair.Valid()
	if hasCreds {
		attach(req, pair)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.observe(outcomeNetworkError, start)
		wrapped := dErrors.Wrap(err, dErrors.CodeNetwork, "request failed")
		span.End(wrapped)
		return nil, wrapped
	}

	if resp.StatusCode != http.StatusUnauthorized {
		g.observe(outcomeSuccess, start)
		span.SetAttributes(tracer.Int64(tracer.AttrStatus, int64(resp.StatusCode)))
		span.End(nil)
		return resp, nil
	}

	// First 401 for this request. Renewal is only possible with a refresh
	// credential; without one the original response stands.
	if !hasCreds || pair.RefreshToken == "" {
		g.observe(outcomeUnauthorized, start)
		span.SetAttributes(tracer.Int64(tracer.AttrStatus, int64(resp.StatusCode)))
		span.End(nil)
		return resp, nil
	}

	if req.Body != nil && req.GetBody == nil {
		g.logger.WarnContext(ctx, "401 on request with non-replayable body, skipping renewal retry",
			"method", req.Method,
			"path", req.URL.Path,
		)
		g.observe(outcomeUnauthorized, start)
		span.End(nil)
		return resp, nil
	}

	drain(resp)
	span.AddEvent(tracer.EventRenewalStarted)

	newPair, err := g.renew(ctx)
	if err != nil {
		g.observe(outcomeUnauthorized, start)
		span.AddEvent(tracer.EventSessionTeardown)
		span.End(err)
		return nil, err
	}
	span.AddEvent(tracer.EventRenewalFinished)

	retry, err := replay(ctx, req)
	if err != nil {
		g.observe(outcomeNetworkError, start)
		span.End(err)
		return nil, err
	}
	attach(retry, newPair)

	if g.metrics != nil {
		g.metrics.RetriesTotal.Inc()
	}
	span.SetAttributes(tracer.Bool(tracer.AttrRetried, true))

	resp, err = g.httpClient.Do(retry)
	if err != nil {
		g.observe(outcomeNetworkError, start)
		wrapped := dErrors.Wrap(err, dErrors.CodeNetwork, "retry failed")
		span.End(wrapped)
		return nil, wrapped
	}

	// A second 401 propagates unchanged; the retry budget is spent.
	if resp.StatusCode == http.StatusUnauthorized {
		g.observe(outcomeUnauthorized, start)
	} else {
		g.observe(outcomeRenewed, start)
	}
	span.SetAttributes(tracer.Int64(tracer.AttrStatus, int64(resp.StatusCode)))
	span.End(nil)
	return resp, nil
}

// renew obtains a fresh access credential, coalescing concurrent callers into
// one refresh call. On terminal failure the credential pair is cleared and the
// session-expired hook fires exactly once, inside the coalesced call.
func (g *Gateway) renew(ctx context.Context) (models.CredentialPair, error) {
	v, err, shared := g.renewals.Do("renew", func() (any, error) {
		return g.renewOnce(ctx)
	})
	if err != nil {
		return models.CredentialPair{}, err
	}
	pair := v.(models.CredentialPair)
	if shared {
		g.logger.DebugContext(ctx, "renewal coalesced with concurrent request")
	}
	return pair, nil
}

func (g *Gateway) renewOnce(ctx context.Context) (models.CredentialPair, error) {
	_, span := g.tracer.Start(ctx, tracer.SpanGatewayRenewal)

	pair, err := g.creds.Get()
	if err != nil || pair.RefreshToken == "" {
		// A concurrent teardown emptied the store between the 401 and the
		// coalesced renewal; treat it as a terminal failure.
		err := dErrors.New(dErrors.CodeRenewalFailed, "refresh credential no longer available")
		span.End(err)
		return models.CredentialPair{}, err
	}

	if g.metrics != nil {
		g.metrics.RenewalsTotal.Inc()
	}

	body, err := json.Marshal(models.RefreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		span.End(err)
		return models.CredentialPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not encode refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.refreshURL, bytes.NewReader(body))
	if err != nil {
		span.End(err)
		return models.CredentialPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not build refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.CredentialPair{}, g.teardown(span, dErrors.Wrap(err, dErrors.CodeRenewalFailed, "refresh call failed"))
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return models.CredentialPair{}, g.teardown(span, dErrors.New(dErrors.CodeRenewalFailed,
			fmt.Sprintf("refresh rejected with status %d", resp.StatusCode)))
	}

	var renewed models.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		return models.CredentialPair{}, g.teardown(span, dErrors.Wrap(err, dErrors.CodeRenewalFailed, "could not decode refresh response"))
	}

	// Only the access credential rotates; the refresh credential is reused.
	pair.AccessToken = renewed.AccessToken
	if renewed.TokenType != "" {
		pair.TokenType = renewed.TokenType
	}
	if err := g.creds.Put(pair); err != nil {
		return models.CredentialPair{}, g.teardown(span, dErrors.Wrap(err, dErrors.CodeRenewalFailed, "could not store renewed credential"))
	}

	g.logger.InfoContext(ctx, "access credential renewed")
	span.End(nil)
	return pair, nil
}

// teardown terminates the session after an unrecoverable renewal failure:
// credentials are wiped as a pair and the expired hook redirects to login.
func (g *Gateway) teardown(span tracer.Span, cause error) error {
	if clearErr := g.creds.Clear(); clearErr != nil {
		g.logger.Error("could not clear credentials during teardown", "error", clearErr)
	}
	if g.metrics != nil {
		g.metrics.RenewalFailures.Inc()
		g.metrics.SessionTeardowns.Inc()
	}
	g.logger.Warn("session terminated after renewal failure", "error", cause)
	g.onExpired()
	span.AddEvent(tracer.EventSessionTeardown)
	span.End(cause)
	return cause
}

func (g *Gateway) observe(outcome string, start time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	g.metrics.RequestLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func attach(req *http.Request, pair models.CredentialPair) {
	tokenType := pair.TokenType
	if tokenType == "" {
		tokenType = models.TokenTypeBearer
	}
	req.Header.Set("Authorization", tokenType+" "+pair.AccessToken)
}

// replay clones the original request with a fresh body for the single retry.
func replay(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not rewind request body")
		}
		clone.Body = body
	}
	return clone, nil
}

// drain consumes and closes a response body so the transport can reuse the
// connection.
func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
