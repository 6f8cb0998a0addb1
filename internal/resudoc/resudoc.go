package resudoc

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/logger"
)

const (
	apiURL    = "http://localhost:8000"
	userAgent = "spigell/resudoc (spigelly@gmail.com)"

	defaultTimeout    = 2 * time.Minute
	defaultMaxRetries = 3
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// Options tunes the transport. Zero values fall back to defaults, a negative
// MaxRetries disables retries.
type Options struct {
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	if base == "" {
		base = apiURL
	}

	return &Client{
		logger:     logger,
		APIURL:     base,
		HTTPClient: newHTTPClient(opts, logger),
		UserAgent:  userAgent,
	}
}

// newHTTPClient wraps a plain client with retries on connection errors and 5xx.
// Matching runs an LLM over every candidate on the server side, so the timeout is generous.
func newHTTPClient(opts Options, log *zap.Logger) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	} else if retries == 0 {
		retries = defaultMaxRetries
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Timeout: timeout}
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	// Hand the last response back so APIError can carry the server's detail.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = checkRetry
	retryClient.Logger = logger.NewRetryLogger(log)

	return retryClient.StandardClient()
}

type noRetryKey struct{}

// withoutRetries marks a request as unsafe to repeat. Matching and uploads are
// POSTs: a retry would rank the candidates again or store the files twice.
func withoutRetries(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if once, _ := ctx.Value(noRetryKey{}).(bool); once {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
