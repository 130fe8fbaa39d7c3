package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/finsight/webhooks/config"
	"github.com/finsight/webhooks/execlog"
	"github.com/finsight/webhooks/signature"
	"github.com/google/uuid"
)

/* Dispatcher executes outbound webhook deliveries
 * Uses pointer semantics as it's an API, not data
 */

const (
	userAgent     = "finsight/1.0"
	versionHeader = "X-Finsight-Version"
	version       = "1.0"
)

// UseCase defines the business operation for outbound delivery
type UseCase interface {
	Dispatch(ctx context.Context, req Request) (Result, error)
}

// FeatureFlags answers whether webhook delivery is globally enabled
type FeatureFlags interface {
	WebhooksEnabled(ctx context.Context) bool
}

// Doer abstracts the HTTP transport so tests can fake it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Dispatcher struct {
	flags  FeatureFlags
	env    config.Environment
	policy Policy
	sink   execlog.Sink

	/* Injected collaborators, replaceable in tests
	 * Now and Sleep make backoff timing deterministic without
	 * wall-clock delays
	 */
	Transport Doer
	Now       func() time.Time
	Sleep     func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a new dispatcher with dependency injection
func NewDispatcher(flags FeatureFlags, env config.Environment, policy Policy, sink execlog.Sink) *Dispatcher {
	return &Dispatcher{
		flags:     flags,
		env:       env,
		policy:    policy.withDefaults(),
		sink:      sink,
		Transport: &http.Client{},
		Now:       time.Now,
		Sleep:     sleepContext,
	}
}

/* Dispatch delivers one webhook with bounded retries
 * Fails fast with ConfigurationError or ValidationError before any I/O;
 * after that it never fails mid-flight - transport and HTTP failures are
 * captured inside the result and surfaced only after retry exhaustion
 * as a DeliveryFailedError carrying the last attempt's cause
 */
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	if !d.flags.WebhooksEnabled(ctx) {
		return Result{}, &ConfigurationError{Reason: "webhook delivery is disabled"}
	}

	if err := req.Validate(d.env); err != nil {
		return Result{}, err
	}

	body, err := marshalBody(req)
	if err != nil {
		return Result{}, err
	}

	webhookID := uuid.New().String()
	method := req.NormalizedMethod()
	maskedURL := MaskURL(req.URL)
	startedAt := d.Now()

	var (
		attempts    []Attempt
		finalStatus *int
		lastCause   error
	)

	for number := 1; number <= d.policy.MaxAttempts; number++ {
		attempt, cause := d.execute(ctx, req, method, body, number)
		attempts = append(attempts, attempt)
		if attempt.HTTPStatus != nil {
			finalStatus = attempt.HTTPStatus
		}
		lastCause = cause

		d.logAttempt(ctx, webhookID, maskedURL, method, attempt, cause)

		if attempt.ErrorKind == ErrorKindNone {
			result := d.buildResult(Succeeded, webhookID, finalStatus, attempts, startedAt)
			d.logExecution(ctx, result, maskedURL, method, nil)
			return result, nil
		}

		// Caller gave up: abort the in-flight sequence, skip further retries
		if ctx.Err() != nil {
			result := d.buildResult(Canceled, webhookID, finalStatus, attempts, startedAt)
			d.logExecution(ctx, result, maskedURL, method, ctx.Err())
			return result, ctx.Err()
		}

		if !d.policy.ShouldRetry(number, attempt.HTTPStatus) {
			break
		}

		/* A timeout already consumed its whole attempt budget, but the
		 * backoff before the next try still applies; only the final
		 * attempt skips it, by falling out of the loop
		 */
		if err := d.Sleep(ctx, d.policy.NextDelay(number)); err != nil {
			result := d.buildResult(Canceled, webhookID, finalStatus, attempts, startedAt)
			d.logExecution(ctx, result, maskedURL, method, err)
			return result, err
		}
	}

	result := d.buildResult(Failed, webhookID, finalStatus, attempts, startedAt)
	d.logExecution(ctx, result, maskedURL, method, lastCause)

	return result, &DeliveryFailedError{
		WebhookID:  webhookID,
		Attempts:   len(attempts),
		LastStatus: finalStatus,
		Cause:      lastCause,
	}
}

// execute runs a single attempt and classifies its outcome
func (d *Dispatcher) execute(ctx context.Context, req Request, method string, body []byte, number int) (Attempt, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.policy.AttemptTimeout)
	defer cancel()

	attempt := Attempt{
		Number:    number,
		StartedAt: d.Now(),
	}

	httpReq, err := d.buildHTTPRequest(attemptCtx, req, method, body)
	if err != nil {
		attempt.Duration = d.Now().Sub(attempt.StartedAt)
		attempt.ErrorKind = ErrorKindTransport
		return attempt, fmt.Errorf("building request: %w", err)
	}

	resp, err := d.Transport.Do(httpReq)
	attempt.Duration = d.Now().Sub(attempt.StartedAt)

	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			attempt.ErrorKind = ErrorKindTimeout
			return attempt, fmt.Errorf("attempt timed out after %s: %w", d.policy.AttemptTimeout, err)
		}
		attempt.ErrorKind = ErrorKindTransport
		return attempt, fmt.Errorf("executing request: %w", err)
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	status := resp.StatusCode
	attempt.HTTPStatus = &status

	if status < 200 || status >= 300 {
		attempt.ErrorKind = ErrorKindStatus
		return attempt, fmt.Errorf("unexpected status %d", status)
	}

	return attempt, nil
}

// buildHTTPRequest merges caller headers under the system headers and signs
func (d *Dispatcher) buildHTTPRequest(ctx context.Context, req Request, method string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reader)
	if err != nil {
		return nil, err
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// System headers win over caller-supplied ones
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(versionHeader, version)
	httpReq.Header.Set(signature.TimestampHeader, strconv.FormatInt(d.Now().UnixMilli(), 10))

	if req.Secret != "" {
		httpReq.Header.Set(signature.Header, signature.Sign(body, req.Secret))
	}
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	} else if req.BasicUsername != "" || req.BasicPassword != "" {
		httpReq.SetBasicAuth(req.BasicUsername, req.BasicPassword)
	}

	return httpReq, nil
}

func (d *Dispatcher) buildResult(outcome Outcome, webhookID string, finalStatus *int, attempts []Attempt, startedAt time.Time) Result {
	return Result{
		Outcome:       outcome,
		Success:       outcome == Succeeded,
		WebhookID:     webhookID,
		FinalStatus:   finalStatus,
		Attempts:      attempts,
		TotalDuration: d.Now().Sub(startedAt),
	}
}

func (d *Dispatcher) logAttempt(ctx context.Context, webhookID, maskedURL, method string, attempt Attempt, cause error) {
	fields := map[string]any{
		"webhook_id":  webhookID,
		"url":         maskedURL,
		"method":      method,
		"attempt":     attempt.Number,
		"duration_ms": attempt.Duration.Milliseconds(),
	}
	if attempt.HTTPStatus != nil {
		fields["status"] = *attempt.HTTPStatus
	}
	if attempt.ErrorKind == ErrorKindNone {
		d.sink.Log(ctx, execlog.CategoryAttempt, fields)
		return
	}
	fields["error_kind"] = string(attempt.ErrorKind)
	d.sink.LogError(ctx, execlog.CategoryAttempt, cause, fields)
}

func (d *Dispatcher) logExecution(ctx context.Context, result Result, maskedURL, method string, cause error) {
	fields := map[string]any{
		"webhook_id":        result.WebhookID,
		"url":               maskedURL,
		"method":            method,
		"outcome":           result.Outcome.String(),
		"success":           result.Success,
		"attempts":          len(result.Attempts),
		"total_duration_ms": result.TotalDuration.Milliseconds(),
	}
	if result.FinalStatus != nil {
		fields["final_status"] = *result.FinalStatus
	}
	if result.Outcome == Succeeded {
		d.sink.Log(ctx, execlog.CategoryExecution, fields)
		return
	}
	d.sink.LogError(ctx, execlog.CategoryExecution, cause, fields)
}

// marshalBody produces the canonical JSON bytes that get signed and sent
func marshalBody(req Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := json.Marshal(req.Body)
	if err != nil {
		return nil, &ValidationError{Field: "body", Reason: fmt.Sprintf("marshaling body: %v", err)}
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
