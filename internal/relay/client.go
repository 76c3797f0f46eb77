package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNoAddress means the device has no stored IP; no outbound call
	// is made in that case.
	ErrNoAddress = errors.New("device has no known address")
	// ErrUpstreamUnreachable covers timeouts and connection failures
	// against the device's administrative endpoint.
	ErrUpstreamUnreachable = errors.New("device unreachable")
	// ErrUpstreamProtocol means the device answered but the payload
	// was not usable under the strict relay contract.
	ErrUpstreamProtocol = errors.New("device returned malformed payload")
)

const (
	adminPath = "/admin/ajax.php"
	// How much of a malformed upstream body is carried in the error
	// for operator diagnosis.
	bodyPreviewLen = 200
)

// Result is the outcome of one relayed call. Raw holds the verbatim
// upstream body for callers that forward it unchanged.
type Result struct {
	Returncode int
	Stdout     string
	Stderr     string
	Raw        []byte
}

// boxResponse is the JSON shape the entrypoint's ajax.php answers with.
type boxResponse struct {
	Cmd        string   `json:"cmd"`
	Returncode int      `json:"returncode"`
	Output     []string `json:"output"`
	Stderr     string   `json:"stderr"`
}

// Client issues single outbound calls to a device's local
// administrative endpoint. It never retries; retrying is the caller's
// decision.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Call relays function with extra form parameters to the device at ip
// and returns whatever came back (tolerant mode). A body that is not
// JSON is passed through as stdout so operators still see it.
func (c *Client) Call(ctx context.Context, ip, function string, params url.Values) (*Result, error) {
	body, err := c.post(ctx, ip, function, params)
	if err != nil {
		return nil, err
	}

	result := &Result{Raw: body}
	var resp boxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		result.Stdout = string(body)
		return result, nil
	}
	result.Returncode = resp.Returncode
	result.Stdout = strings.Join(resp.Output, "\n")
	result.Stderr = resp.Stderr
	return result, nil
}

// CallStrict relays function like Call but treats a nonzero return
// code, empty output, or a body that does not parse as a JSON object
// as a relay failure.
func (c *Client) CallStrict(ctx context.Context, ip, function string, params url.Values) (*Result, error) {
	body, err := c.post(ctx, ip, function, params)
	if err != nil {
		return nil, err
	}

	var resp boxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamProtocol, preview(body))
	}
	if resp.Returncode != 0 {
		return nil, fmt.Errorf("%w: command exited with %d: %s",
			ErrUpstreamProtocol, resp.Returncode, resp.Stderr)
	}
	if len(resp.Output) == 0 {
		return nil, fmt.Errorf("%w: command produced no output", ErrUpstreamProtocol)
	}

	return &Result{
		Returncode: resp.Returncode,
		Stdout:     strings.Join(resp.Output, "\n"),
		Stderr:     resp.Stderr,
		Raw:        body,
	}, nil
}

func (c *Client) post(ctx context.Context, ip, function string, params url.Values) ([]byte, error) {
	if ip == "" {
		return nil, ErrNoAddress
	}

	form := url.Values{}
	form.Set("function", function)
	for key, values := range params {
		for _, v := range values {
			form.Add(key, v)
		}
	}

	endpoint := "http://" + ip + adminPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	slog.Debug("Relaying call to device", "endpoint", endpoint, "function", function)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstreamUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamProtocol, resp.StatusCode, preview(body))
	}
	return body, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > bodyPreviewLen {
		s = s[:bodyPreviewLen]
	}
	return s
}
