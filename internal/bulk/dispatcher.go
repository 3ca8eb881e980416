// AngelaMos | 2026
// dispatcher.go

package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
)

// SignatureHeader carries the HMAC the batch webhook verifies before
// trusting a delivery.
const SignatureHeader = "X-Bulk-Signature"

// Dispatcher hands a batch to the out-of-process boundary that will
// eventually call the batch webhook, at least once.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload BatchPayload) error
}

// HTTPDispatcher posts signed batches to the configured callback URL.
// Retries are the built-in resty backoff; a delivery that still fails
// after the retry budget surfaces as an error to the caller.
type HTTPDispatcher struct {
	client *resty.Client
	url    string
	secret string
}

func NewHTTPDispatcher(cfg config.DispatchConfig) *HTTPDispatcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(10 * time.Second)

	return &HTTPDispatcher{
		client: client,
		url:    cfg.CallbackURL,
		secret: cfg.Secret,
	}
}

func (d *HTTPDispatcher) Dispatch(
	ctx context.Context,
	payload BatchPayload,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode batch payload: %w", err)
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(SignatureHeader, core.SignHMAC(d.secret, body)).
		SetBody(body).
		Post(d.url)
	if err != nil {
		return fmt.Errorf(
			"dispatch batch %d of job %s: %w",
			payload.BatchIndex, payload.JobID, err,
		)
	}

	if resp.IsError() {
		return fmt.Errorf(
			"dispatch batch %d of job %s: status %d",
			payload.BatchIndex, payload.JobID, resp.StatusCode(),
		)
	}

	return nil
}

var _ Dispatcher = (*HTTPDispatcher)(nil)
