// AngelaMos | 2026
// renderer.go

package bulk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/carterperez-dev/billforge/internal/config"
)

// RenderError is a row-level rendering failure. It marks the row
// failed without aborting the batch; any other error class aborts.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "render failed: " + e.Reason
}

// Renderer produces an invoice artifact from a template design and one
// row's field values. The core treats the rendering engine as opaque;
// it only sees the artifact URL or a failure.
type Renderer interface {
	Render(
		ctx context.Context,
		design json.RawMessage,
		fields map[string]string,
	) (artifactURL string, err error)
}

type renderRequest struct {
	Design json.RawMessage   `json:"design"`
	Fields map[string]string `json:"fields"`
}

type renderResponse struct {
	ArtifactURL string `json:"artifact_url"`
	Error       string `json:"error"`
}

// HTTPRenderer calls the external rendering service.
type HTTPRenderer struct {
	client *resty.Client
	url    string
}

func NewHTTPRenderer(cfg config.RendererConfig) *HTTPRenderer {
	return &HTTPRenderer{
		client: resty.New().SetTimeout(cfg.Timeout),
		url:    cfg.URL,
	}
}

func (r *HTTPRenderer) Render(
	ctx context.Context,
	design json.RawMessage,
	fields map[string]string,
) (string, error) {
	var result renderResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(renderRequest{Design: design, Fields: fields}).
		SetResult(&result).
		Post(r.url)
	if err != nil {
		return "", fmt.Errorf("call renderer: %w", err)
	}

	if resp.IsError() {
		reason := result.Error
		if reason == "" {
			reason = fmt.Sprintf("renderer returned status %d", resp.StatusCode())
		}
		return "", &RenderError{Reason: reason}
	}

	return result.ArtifactURL, nil
}

var _ Renderer = (*HTTPRenderer)(nil)
