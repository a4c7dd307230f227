package gemini

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
	DefaultValidator  = false
	DefaultVerbose    = false

	// APIKeyEnv is consulted when no key is passed to New.
	APIKeyEnv = "GEMINI_API_KEY"
)

type Option func(o *Options)

type Options struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	maxRetries int
	validate   bool
	verbose    bool
}

var defaultOptions = Options{
	baseURL:    DefaultBaseURL,
	apiVersion: DefaultAPIVersion,
	timeout:    DefaultTimeout,
	maxRetries: DefaultMaxRetries,
	validate:   DefaultValidator,
	verbose:    DefaultVerbose,
}

func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.apiKey = key
	}
}

// WithBaseURL points the client at another host, e.g. a test server or a proxy.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

func WithAPIVersion(version string) Option {
	return func(o *Options) {
		o.apiVersion = version
	}
}

// WithHTTPClient sets the HTTP client. A nil client keeps the default one.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client. It is ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithMaxRetries bounds how many times Decode re-asks the model after an undecodable or invalid reply.
func WithMaxRetries(maxRetries int) Option {
	return func(o *Options) {
		o.maxRetries = maxRetries
	}
}

// WithValidation validates decoded JSON replies with their `validate` struct tags.
func WithValidation() Option {
	return func(o *Options) {
		o.validate = true
	}
}

// WithVerbose logs request and response bodies at debug level.
func WithVerbose() Option {
	return func(o *Options) {
		o.verbose = true
	}
}

func (o Options) BaseURL() string {
	return o.baseURL
}

func (o Options) APIVersion() string {
	return o.apiVersion
}

func (o Options) Logger() *zap.Logger {
	return o.logger
}

func (o Options) MaxRetries() int {
	return o.maxRetries
}

func (o Options) Validate() bool {
	return o.validate
}

func (o Options) Verbose() bool {
	return o.verbose
}
