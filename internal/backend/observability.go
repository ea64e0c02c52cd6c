package backend

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Operation names one collaborator API call for observability purposes.
type Operation string

const (
	OpCreateEntity     Operation = "create_entity"
	OpTransitionStatus Operation = "transition_status"
	OpNotify           Operation = "notify"
	OpListInvoices     Operation = "list_invoices"
	OpRecordPayment    Operation = "record_payment"
	OpCreateOrder      Operation = "create_payment_order"
	OpVerifyPayment    Operation = "verify_payment"
)

// CallEvent records metadata about a single collaborator API call.
type CallEvent struct {
	Op        Operation
	Class     CallClass
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes API call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] api_call op=%s class=%s latency_ms=%d status=%s\n",
		ts, event.Op, event.Class, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
