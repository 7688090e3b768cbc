package contract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the per-request timeout used if none is configured. Some of the
// endpoints under test are deliberately slow, so it is well above their simulated delays.
const DefaultTimeout = time.Second * 30

var (
	// ErrNetwork matches any *NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrTimeout matches a *NetworkError caused by the request timing out.
	ErrTimeout = errors.New("request timed out")
)

// NetworkError means that a request could not be completed at the transport level: the
// connection was refused, the host could not be resolved, the request timed out, or it
// was cancelled. Err is the underlying cause.
type NetworkError struct {
	Method  Method
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s: request timed out: %s", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork || (e.Timeout && target == ErrTimeout)
}

// Logger is the minimal logging interface used by the Executor. It is satisfied by
// framework.Logger and *log.Logger.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// Executor sends RequestSpecs to a base endpoint. Its configuration cannot change after it
// is created, and it is safe for concurrent use.
type Executor struct {
	baseURL        string
	client         *http.Client
	timeout        time.Duration
	defaultHeaders map[string]string
	logger         Logger
}

// ExecutorOption is an optional parameter for NewExecutor.
type ExecutorOption func(*Executor)

// WithTimeout sets the time limit for each request, including reading the response body.
// Values <= 0 are ignored.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithHTTPClient sets the HTTP client. Its own Timeout, if any, still applies in addition
// to the Executor's timeout.
func WithHTTPClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithDefaultHeaders sets headers to add to every request that does not already have them.
func WithDefaultHeaders(headers map[string]string) ExecutorOption {
	return func(e *Executor) {
		e.defaultHeaders = canonicalHeaders(headers)
	}
}

// WithLogger sets the destination for debug output about each request and response.
func WithLogger(logger Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an Executor for the specified base endpoint, which must be an
// absolute http or https URL.
func NewExecutor(baseEndpoint string, options ...ExecutorOption) (*Executor, error) {
	u, err := url.Parse(baseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid base endpoint %q: %w", baseEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base endpoint %q: must be an absolute http or https URL", baseEndpoint)
	}
	e := &Executor{
		baseURL: strings.TrimSuffix(baseEndpoint, "/"),
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  nullLogger{},
	}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// With returns a copy of the Executor with additional options applied. The copy shares the
// HTTP client of e unless the options replace it.
func (e *Executor) With(options ...ExecutorOption) *Executor {
	e1 := *e
	for _, o := range options {
		o(&e1)
	}
	return &e1
}

// BaseURL returns the base endpoint, without a trailing slash.
func (e *Executor) BaseURL() string { return e.baseURL }

// Timeout returns the per-request time limit.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// URLFor returns the absolute URL that a request will be sent to.
func (e *Executor) URLFor(spec RequestSpec) string {
	path := strings.TrimPrefix(spec.Path(), "/")
	if path == "" {
		return e.baseURL
	}
	if strings.HasPrefix(path, "?") {
		return e.baseURL + path
	}
	return e.baseURL + "/" + path
}

// Execute sends the request and reads the whole response.
//
// Transport failures, including timeouts and cancellation of ctx, are returned as a
// *NetworkError. Any HTTP status, including 4xx and 5xx, is a successful result. The
// response body is always closed before Execute returns.
func (e *Executor) Execute(ctx context.Context, spec RequestSpec) (CapturedResponse, error) {
	spec = spec.WithHeaders(e.defaultHeaders)
	target := e.URLFor(spec)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var body io.Reader
	if b, ok := spec.Body().Get(); ok {
		body = strings.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, string(spec.Method()), target, body)
	if err != nil {
		return CapturedResponse{}, fmt.Errorf("could not create request for %s: %w", target, err)
	}
	for k, v := range spec.Headers() {
		req.Header.Set(k, v)
	}

	e.logger.Printf(">> %s %s", spec.Method(), target)
	for _, k := range sortedKeys(spec.Headers()) {
		e.logger.Printf(">> %s: %s", k, spec.Header(k))
	}
	if b, ok := spec.Body().Get(); ok {
		e.logger.Printf(">> %s", b)
	}
	e.logger.Printf("   (%s)", CurlCommand(target, spec))

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return CapturedResponse{}, e.networkError(ctx, spec, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return CapturedResponse{}, e.networkError(ctx, spec, target, err)
	}

	captured := newCapturedHTTPResponse(resp, data, time.Since(start))
	e.logger.Printf("<< %d (%s)", captured.StatusCode, captured.Duration)
	if captured.RawBody != "" {
		e.logger.Printf("<< %s", captured.RawBody)
	}
	return captured, nil
}

func (e *Executor) networkError(ctx context.Context, spec RequestSpec, target string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timedOut = true
	}
	if timedOut && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %s", context.DeadlineExceeded, e.timeout, err)
	}
	ne := &NetworkError{Method: spec.Method(), URL: target, Timeout: timedOut, Err: err}
	e.logger.Printf("!! %s", ne)
	return ne
}
