// Package preziq is the HTTP implementation of engine.SyncClient, talking to
// the slide persistence API over JSON.
package preziq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

const tracerName = "preziq-sync-client"

type Client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

var _ engine.SyncClient = (*Client)(nil)

func NewClient(log *logger.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("sync client base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid sync client base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		log:     log.With("service", "SyncClient"),
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
	}, nil
}

func (c *Client) AddElement(ctx context.Context, slideID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	path := fmt.Sprintf("/api/slides/%s/elements", slideID)
	var out domain.SlideElement
	if err := c.do(ctx, "AddElement", http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateElement(ctx context.Context, slideID, elementID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	path := fmt.Sprintf("/api/slides/%s/elements/%s", slideID, elementID)
	var out domain.SlideElement
	if err := c.do(ctx, "UpdateElement", http.MethodPut, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteElement(ctx context.Context, slideID, elementID uuid.UUID) error {
	path := fmt.Sprintf("/api/slides/%s/elements/%s", slideID, elementID)
	return c.do(ctx, "DeleteElement", http.MethodDelete, path, nil, nil)
}

func (c *Client) DeleteStorageObject(ctx context.Context, objectPath string) error {
	body := map[string]string{"path": objectPath}
	return c.do(ctx, "DeleteStorageObject", http.MethodPost, "/api/storage/delete", body, nil)
}

func (c *Client) UpdateActivityBackground(ctx context.Context, activityID uuid.UUID, payload engine.BackgroundPayload) error {
	path := fmt.Sprintf("/api/activities/%s/background", activityID)
	return c.do(ctx, "UpdateActivityBackground", http.MethodPut, path, payload, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
		span.RecordError(err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
