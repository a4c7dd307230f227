package gemini

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bububa/gemini-go/encoding"
)

// Chat is a conversation with one model. Every call replays the whole history.
// A Chat is not safe for concurrent use.
type Chat struct {
	client            *Client
	model             string
	systemInstruction string
	history           *History
	config            *GenerationConfig
	safetySettings    []SafetySetting
	tools             []Tool
}

func newChat(c *Client, model string) *Chat {
	return &Chat{
		client:  c,
		model:   modelName(model),
		history: NewHistory(0),
	}
}

func (c *Chat) Model() string {
	return c.model
}

// GenerationConfig returns the generation config, or nil when none was set.
func (c *Chat) GenerationConfig() *GenerationConfig {
	return c.config
}

// Config returns the generation config, creating an empty one on first use.
func (c *Chat) Config() *GenerationConfig {
	if c.config == nil {
		c.config = new(GenerationConfig)
	}
	return c.config
}

func (c *Chat) SystemInstruction(text string) *Chat {
	c.systemInstruction = text
	return c
}

// Instruction returns the system instruction.
func (c *Chat) Instruction() string {
	return c.systemInstruction
}

func (c *Chat) Safety() []SafetySetting {
	return c.safetySettings
}

func (c *Chat) SafetySettings(settings ...SafetySetting) *Chat {
	c.safetySettings = settings
	return c
}

func (c *Chat) Tools(tools ...Tool) *Chat {
	c.tools = tools
	return c
}

func (c *Chat) History() []Content {
	return c.history.List()
}

func (c *Chat) SetHistory(list []Content) *Chat {
	c.history.Set(list)
	return c
}

func (c *Chat) ClearHistory() {
	c.history.Reset()
}

// route builds a generateContent call over the current history.
func (c *Chat) route() *Route[*GenerateContent, Response] {
	route := c.client.GenerateContent(c.model)
	req := route.Request()
	req.Contents(c.history.List())
	if c.systemInstruction != "" {
		req.SystemInstruction(c.systemInstruction)
	}
	if c.config != nil {
		req.Config(c.config.Clone())
	}
	if len(c.safetySettings) > 0 {
		req.SafetySettings(c.safetySettings...)
	}
	if len(c.tools) > 0 {
		req.Tools(c.tools...)
	}
	return route
}

// GenerateContent sends the history as it is. The first candidate is appended
// as a model turn. A candidate without parts, as sent when the reply itself is
// blocked, is not recorded and yields ErrEmptyResponse.
func (c *Chat) GenerateContent(ctx context.Context) (*Response, error) {
	resp, err := c.route().Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		if resp.Blocked() {
			return resp, fmt.Errorf("%w: prompt blocked: %s", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return resp, ErrEmptyResponse
	}
	reply := resp.Candidates[0].Content
	if len(reply.Parts) == 0 {
		return resp, fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, resp.Candidates[0].FinishReason)
	}
	reply.Role = RoleModel
	c.history.Add(reply)
	return resp, nil
}

// SendMessage appends text as a user turn and calls GenerateContent. The user
// turn is taken back out when the call fails.
func (c *Chat) SendMessage(ctx context.Context, text string) (*Response, error) {
	return c.Send(ctx, TextPart(text))
}

// Send is SendMessage for arbitrary parts.
func (c *Chat) Send(ctx context.Context, parts ...Part) (*Response, error) {
	mark := c.history.Len()
	c.history.Add(UserContent(parts...))
	resp, err := c.GenerateContent(ctx)
	if err != nil {
		c.history.Truncate(mark)
		c.client.logger.Debug("gemini chat turn rolled back", zap.String("model", c.model), zap.Error(err))
		return resp, err
	}
	return resp, nil
}

type historyFile struct {
	History []Content `json:"history"`
}

// Save writes the history to path. The format follows the extension: .json,
// .yaml, .yml or .toml.
func (c *Chat) Save(path string) error {
	codec, err := encoding.ForPath(path)
	if err != nil {
		return err
	}
	bs, err := codec.Marshal(historyFile{History: c.history.List()})
	if err != nil {
		return fmt.Errorf("gemini: encode history: %w", err)
	}
	return os.WriteFile(path, bs, 0o600)
}

// LoadHistory replaces the history with the one stored at path.
func (c *Chat) LoadHistory(path string) error {
	codec, err := encoding.ForPath(path)
	if err != nil {
		return err
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f historyFile
	if err := codec.Unmarshal(bs, &f); err != nil {
		return fmt.Errorf("gemini: decode history %s: %w", path, err)
	}
	c.history.Set(f.History)
	return nil
}

// JSON switches the chat to JSON replies.
func (c *Chat) JSON() *JSONChat {
	c.Config().ResponseMimeType = ModeJSON
	return newJSONChat(c)
}
