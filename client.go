package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxBodySize limits how much of a reply is read.
const maxBodySize = 32 << 20

const userAgent = "gemini-go/1.0"

// Client talks to the Generative Language API. It is immutable after New and safe for concurrent use.
type Client struct {
	Options
}

// New creates a Client. The API key comes from WithAPIKey or, failing that, from GEMINI_API_KEY.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.apiKey == "" {
		o.apiKey = os.Getenv(APIKeyEnv)
	}
	if o.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o.baseURL = strings.TrimSuffix(o.baseURL, "/")
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Client{Options: o}, nil
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client configured from the environment.
// It is created on the first successful call; failures are not cached.
func Default() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient != nil {
		return defaultClient, nil
	}
	c, err := New()
	if err != nil {
		return nil, err
	}
	defaultClient = c
	return c, nil
}

// NewChat starts a chat on the Default client.
func NewChat(model string) (*Chat, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Chat(model), nil
}

func (c *Client) Chat(model string) *Chat {
	return newChat(c, model)
}

func (c *Client) Models() *Route[*ListModels, ModelList] {
	return newRoute[*ListModels, ModelList](c, new(ListModels))
}

func (c *Client) Model(name string) *Route[*GetModel, Model] {
	return newRoute[*GetModel, Model](c, &GetModel{name: modelName(name)})
}

func (c *Client) GenerateContent(model string) *Route[*GenerateContent, Response] {
	return newRoute[*GenerateContent, Response](c, NewGenerateContent(model))
}

func (c *Client) CountTokens(model string) *Route[*CountTokens, TokenCount] {
	return newRoute[*CountTokens, TokenCount](c, &CountTokens{model: modelName(model)})
}

func (c *Client) EmbedContent(model string) *Route[*EmbedContent, EmbedContentResponse] {
	return newRoute[*EmbedContent, EmbedContentResponse](c, &EmbedContent{model: modelName(model)})
}

func (c *Client) Files() *Route[*ListFiles, FileList] {
	return newRoute[*ListFiles, FileList](c, new(ListFiles))
}

func (c *Client) File(name string) *Route[*GetFile, File] {
	return newRoute[*GetFile, File](c, &GetFile{name: fileName(name)})
}

func (c *Client) DeleteFile(name string) *Route[*DeleteFile, struct{}] {
	return newRoute[*DeleteFile, struct{}](c, &DeleteFile{name: fileName(name)})
}

// AllModels follows nextPageToken until every model has been listed.
func (c *Client) AllModels(ctx context.Context) ([]Model, error) {
	var (
		models []Model
		token  string
	)
	for {
		route := c.Models()
		route.Request().PageToken(token)
		page, err := route.Do(ctx)
		if err != nil {
			return nil, err
		}
		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		token = page.NextPageToken
	}
}

func (c *Client) doJSON(ctx context.Context, method, uri, redacted string, body any, out any) error {
	var (
		reader  io.Reader
		payload []byte
	)
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gemini: encode request: %w", err)
		}
		payload = bs
		reader = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, reader)
	if err != nil {
		return fmt.Errorf("gemini: build request: %w", redactURLError(err, redacted))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Verbose() && payload != nil {
		c.logger.Debug("gemini request body", zap.String("uri", redacted), zap.ByteString("body", payload))
	}
	statusCode, _, data, err := c.send(req, redacted)
	if err != nil {
		return err
	}
	return decodeEnvelope(statusCode, data, out)
}

// send performs req and reads its body. redacted is what gets logged in place of the URL.
func (c *Client) send(req *http.Request, redacted string) (int, http.Header, []byte, error) {
	req.Header.Set("User-Agent", userAgent)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gemini request failed",
			zap.String("method", req.Method),
			zap.String("uri", redacted),
			zap.Error(redactURLError(err, redacted)))
		return 0, nil, nil, fmt.Errorf("gemini: %s %s: %w", req.Method, redacted, redactURLError(err, redacted))
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, resp.Header, nil, fmt.Errorf("gemini: read response: %w", err)
	}
	c.logger.Debug("gemini request",
		zap.String("method", req.Method),
		zap.String("uri", redacted),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	if c.Verbose() {
		c.logger.Debug("gemini response body", zap.String("uri", redacted), zap.ByteString("body", data))
	}
	return resp.StatusCode, resp.Header, data, nil
}

// redactURLError keeps the API key out of *url.Error messages.
func redactURLError(err error, redacted string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: redacted, Err: urlErr.Err}
	}
	return err
}

func modelName(name string) string {
	return strings.TrimPrefix(name, "models/")
}

func fileName(name string) string {
	if strings.HasPrefix(name, "files/") {
		return name
	}
	return "files/" + name
}
