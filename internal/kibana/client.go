// Package kibana is the HTTP client for the Kibana Fleet and licensing APIs.
// It implements the collaborator interfaces declared in internal/api.
package kibana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetgate/internal/api"
	"fleetgate/pkg/logging"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10

	subsystem = "KibanaClient"
)

// API paths.
const (
	PathCheckPermissions = "/api/fleet/setup/check_permissions"
	PathSetup            = "/api/fleet/setup"
	PathAgent            = "/api/fleet/agents/%s"
	PathAgentPolicy      = "/api/fleet/agent_policies/%s"
	PathLicense          = "/api/licensing/info"
)

// Client talks to one Kibana instance.
type Client struct {
	baseURL    *url.URL
	spaceID    string
	username   string
	password   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client

	// deduplicates concurrent lookups of the same policy
	policyGroup singleflight.Group
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBasicAuth authenticates with username and password.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithAPIKey authenticates with an encoded API key. It takes precedence over basic auth.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithSpace scopes Fleet requests to a Kibana space.
func WithSpace(spaceID string) ClientOption {
	return func(c *Client) {
		c.spaceID = spaceID
	}
}

// WithTimeout sets the request timeout of the client NewClient builds. It
// has no effect on a client supplied through WithHTTPClient.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for the Kibana instance at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid kibana url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid kibana url %q: scheme must be http or https", baseURL)
	}

	c := &Client{baseURL: u}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		timeout := DefaultHTTPTimeout
		if c.timeout > 0 {
			timeout = c.timeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c, nil
}

// CheckPermissions implements api.PermissionOracle. A non-2xx answer is not
// an error: it yields a response without data, which the sequencer reads as
// a request error.
func (c *Client) CheckPermissions(ctx context.Context) (*api.PermissionResponse, error) {
	var data api.PermissionData
	err := c.do(ctx, http.MethodGet, PathCheckPermissions, nil, &data)
	if err != nil {
		if api.IsRequestError(err) {
			logging.Warn(subsystem, "Permission check answered with an error: %v", err)
			return &api.PermissionResponse{}, nil
		}
		return nil, err
	}
	return &api.PermissionResponse{Data: &data}, nil
}

// RunSetup implements api.SetupService. A non-2xx answer becomes a soft
// error in SetupResult; only transport failures are returned as errors.
func (c *Client) RunSetup(ctx context.Context) (*api.SetupResult, error) {
	err := c.do(ctx, http.MethodPost, PathSetup, struct{}{}, nil)
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			detail := reqErr.Detail
			if detail == nil {
				detail = &api.ErrorDetail{StatusCode: reqErr.StatusCode}
			}
			return &api.SetupResult{Error: detail}, nil
		}
		return nil, err
	}
	return &api.SetupResult{}, nil
}

// GetAgent fetches one agent. A 404 is reported as api.NotFoundError.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*api.Agent, error) {
	var resp api.AgentResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(PathAgent, url.PathEscape(agentID)), nil, &resp); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, api.NewAgentNotFoundError(agentID)
		}
		return nil, err
	}
	if resp.Item == nil {
		return nil, api.NewAgentNotFoundError(agentID)
	}
	return resp.Item, nil
}

// GetAgentPolicy fetches one agent policy. Concurrent lookups of the same
// policy share one request, which is not bound to any single caller's
// cancellation; each caller still stops waiting when its own ctx ends.
func (c *Client) GetAgentPolicy(ctx context.Context, policyID string) (*api.AgentPolicy, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.policyGroup.DoChan(policyID, func() (interface{}, error) {
		var resp api.AgentPolicyResponse
		if err := c.do(shared, http.MethodGet, fmt.Sprintf(PathAgentPolicy, url.PathEscape(policyID)), nil, &resp); err != nil {
			if isStatus(err, http.StatusNotFound) {
				return nil, api.NewAgentPolicyNotFoundError(policyID)
			}
			return nil, err
		}
		if resp.Item == nil {
			return nil, api.NewAgentPolicyNotFoundError(policyID)
		}
		return resp.Item, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*api.AgentPolicy), nil
	}
}

// GetLicense implements api.LicenseReader. The licensing endpoint is not
// space-scoped.
func (c *Client) GetLicense(ctx context.Context) (*api.LicenseInfo, error) {
	var resp api.LicenseResponse
	if err := c.doPath(ctx, http.MethodGet, c.resolve(PathLicense, false), nil, &resp); err != nil {
		return nil, err
	}
	if resp.License == nil {
		return nil, fmt.Errorf("licensing response carried no license")
	}
	return resp.License, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doPath(ctx, method, c.resolve(path, true), body, out)
}

func (c *Client) resolve(path string, spaced bool) string {
	u := *c.baseURL
	prefix := u.Path
	if spaced && c.spaceID != "" && c.spaceID != "default" {
		prefix += "/s/" + url.PathEscape(c.spaceID)
	}
	u.Path = prefix + path
	return u.String()
}

func (c *Client) doPath(ctx context.Context, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("kbn-xsrf", "fleetgate")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.apiKey != "":
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}

	logging.Debug(subsystem, "%s %s", method, req.URL.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &api.RequestError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Detail:     decodeErrorDetail(resp),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, req.URL.Path, err)
	}
	return nil
}

func decodeErrorDetail(resp *http.Response) *api.ErrorDetail {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return nil
	}
	var detail api.ErrorDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return &api.ErrorDetail{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if detail.StatusCode == 0 {
		detail.StatusCode = resp.StatusCode
	}
	return &detail
}
