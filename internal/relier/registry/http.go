package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
	dErrors "authflow/pkg/domain-errors"
)

const (
	clientPath     = "/v1/client/"
	maxBodyBytes   = 64 << 10
	defaultTimeout = 5 * time.Second
)

// HTTPClient reads client records from a remote registry over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

func WithLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTPClient) {
		h.logger = logger
	}
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(h)
	}
	if h.client == nil {
		h.client = &http.Client{Timeout: defaultTimeout}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// errorResponse is the registry error body. Field names the offending
// request parameter of a 400.
type errorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetClientInfo fetches the record for clientID. A 404 is reported as
// INVALID_PARAMETER("client_id"), a 400 as INVALID_PARAMETER on the field
// the registry names.
func (h *HTTPClient) GetClientInfo(ctx context.Context, clientID string) (schema.Params, error) {
	endpoint := h.baseURL + clientPath + url.PathEscape(clientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "client registry timed out")
		}
		return nil, dErrors.Wrap(fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "client registry unavailable")
	}
	defer resp.Body.Close()
	body := io.LimitReader(resp.Body, maxBodyBytes)

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeClient(body)
	case resp.StatusCode == http.StatusNotFound:
		return nil, dErrors.InvalidParameter("client_id")
	case resp.StatusCode == http.StatusBadRequest:
		var e errorResponse
		if err := json.NewDecoder(body).Decode(&e); err != nil || e.Field == "" {
			return nil, dErrors.InvalidParameter("client_id")
		}
		return nil, dErrors.InvalidParameter(e.Field)
	case resp.StatusCode >= http.StatusInternalServerError:
		h.logger.WarnContext(ctx, "client registry error",
			"client_id", clientID,
			"status", resp.StatusCode,
		)
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "client registry unavailable")
	default:
		return nil, dErrors.New(dErrors.CodeUnexpected, fmt.Sprintf("client registry returned %s", resp.Status))
	}
}

// decodeClient flattens a JSON object into schema params. Scalars are
// rendered as strings so the ClientInfo schema validates them.
func decodeClient(r io.Reader) (schema.Params, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnexpected, "decode client registry response")
	}
	params := make(schema.Params, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			params[k] = val
		case bool:
			params[k] = strconv.FormatBool(val)
		case float64:
			params[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
		default:
			// nested values are not part of the client record
		}
	}
	return params, nil
}
