// Package backend is the client for the collaborator REST API that owns
// entities, invoices, and payments. The orchestrator is its only
// consumer; it never reaches around this package to the wire.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/avendriel/accord/internal/domain"
)

// Client is the collaborator API surface consumed by the completion
// pipeline.
type Client interface {
	// CreateEntity submits a new agreement or RFQ. Never retried: a
	// duplicate entity is worse than a manual resubmit.
	CreateEntity(ctx context.Context, req CreateEntityRequest) (*CreationResult, error)

	// TransitionStatus moves the entity to the target lifecycle status.
	// Target-status semantics are idempotent, so retries are safe.
	TransitionStatus(ctx context.Context, entityID string, status domain.EntityStatus) error

	// Notify asks the collaborator to notify the counterparty.
	Notify(ctx context.Context, entityID string) error

	// ListInvoices returns the entity's invoices, oldest first.
	ListInvoices(ctx context.Context, entityID string) ([]Invoice, error)

	// RecordPayment records an offline payment against an invoice.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentReceipt, error)

	// CreatePaymentOrder opens a gateway order for online checkout.
	CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (*PaymentOrder, error)

	// VerifyPayment confirms a gateway payment server-side.
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error
}

// httpClient implements Client over JSON/HTTP.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that talks to the collaborator API.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) CreateEntity(ctx context.Context, req CreateEntityRequest) (*CreationResult, error) {
	var result CreationResult
	err := c.call(ctx, OpCreateEntity, ClassCreate, http.MethodPost, "/entities", req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) TransitionStatus(ctx context.Context, entityID string, status domain.EntityStatus) error {
	body := map[string]string{"status": string(status)}
	path := fmt.Sprintf("/entities/%s/status", entityID)
	return c.call(ctx, OpTransitionStatus, ClassSoft, http.MethodPut, path, body, nil)
}

func (c *httpClient) Notify(ctx context.Context, entityID string) error {
	path := fmt.Sprintf("/entities/%s/notify", entityID)
	return c.call(ctx, OpNotify, ClassSoft, http.MethodPost, path, nil, nil)
}

func (c *httpClient) ListInvoices(ctx context.Context, entityID string) ([]Invoice, error) {
	var invoices []Invoice
	path := fmt.Sprintf("/entities/%s/invoices", entityID)
	if err := c.call(ctx, OpListInvoices, ClassRead, http.MethodGet, path, nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *httpClient) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentReceipt, error) {
	var receipt PaymentReceipt
	if err := c.call(ctx, OpRecordPayment, ClassPayment, http.MethodPost, "/payments/record", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *httpClient) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (*PaymentOrder, error) {
	var order PaymentOrder
	if err := c.call(ctx, OpCreateOrder, ClassPayment, http.MethodPost, "/payments/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *httpClient) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error {
	return c.call(ctx, OpVerifyPayment, ClassPayment, http.MethodPost, "/payments/verify", req, nil)
}

// call runs one logical API call with the class's timeout and retry
// budget, reporting the outcome to the observer exactly once.
func (c *httpClient) call(ctx context.Context, op Operation, class CallClass, method, path string, body, out any) error {
	start := time.Now()

	timeoutMs := c.cfg.ClassTimeout(class)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	attempts := 1 + c.cfg.ClassRetries(class)

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := c.doRequest(ctx, method, path, body, out)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Op:        op,
				Class:     class,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if !retryable(err) {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Class:     class,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(classify(ctx, lastErr)),
	})
	return fmt.Errorf("%s: %w", op, classify(ctx, lastErr))
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &StatusError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return isConnectionError(err)
}

// classify maps a transport-level failure to the package's sentinel
// errors; status errors pass through unchanged.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
