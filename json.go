package gemini

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	jsonenc "github.com/bububa/gemini-go/encoding/json"
)

// JSONChat is a Chat whose replies are JSON documents decoded into Go values.
type JSONChat struct {
	*Chat
	encoder Encoder
	example bool
}

func newJSONChat(c *Chat) *JSONChat {
	return &JSONChat{
		Chat:    c,
		encoder: jsonenc.NewEncoder(),
	}
}

// ResponseSchema constrains replies to schema.
func (c *JSONChat) ResponseSchema(schema *Schema) *JSONChat {
	c.Config().ResponseSchema = schema
	return c
}

// WithEncoder replaces the reply decoder.
func (c *JSONChat) WithEncoder(enc Encoder) *JSONChat {
	c.encoder = enc
	return c
}

// WithExample appends a generated example of the target type to each message,
// for models that ignore responseSchema. Needs an encoder with a Context method.
func (c *JSONChat) WithExample() *JSONChat {
	c.example = true
	return c
}

// ResponseSchemaFor sets the response schema of c from T.
func ResponseSchemaFor[T any](c *JSONChat) (*JSONChat, error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return c, err
	}
	return c.ResponseSchema(schema), nil
}

type contexter interface {
	Context(any) []byte
}

// Decode sends message and decodes the first candidate into T.
//
// A reply that fails to decode or validate is discarded and the message is
// sent again, up to the client's MaxRetries. API and transport errors are
// returned at once. The history keeps the user turn and the accepted reply
// only; every failed attempt is rolled back.
func Decode[T any](ctx context.Context, c *JSONChat, message string) (T, error) {
	var (
		zero   T
		logger = c.client.logger
		retErr = ErrMaxRetries
	)
	if c.example {
		if enc, ok := c.encoder.(contexter); ok {
			message += string(enc.Context(new(T)))
		}
	}
	mark := c.history.Len()
	for attempt := 0; attempt <= c.client.MaxRetries(); attempt++ {
		c.history.Truncate(mark)
		c.history.Add(UserContent(TextPart(message)))
		resp, err := c.GenerateContent(ctx)
		if err != nil {
			c.history.Truncate(mark)
			return zero, err
		}
		text := resp.Candidates[0].Content.Text()
		if c.client.Verbose() {
			logger.Debug("gemini json reply", zap.Int("attempt", attempt), zap.String("text", text))
		}

		out := new(T)
		if err := c.encoder.Unmarshal([]byte(text), out); err != nil {
			logger.Debug("gemini json decode failed", zap.Int("attempt", attempt), zap.Error(err))
			retErr = errors.Join(retErr, fmt.Errorf("attempt %d: %w", attempt, err))
			continue
		}
		if c.client.Validate() {
			if validator, ok := c.encoder.(Validator); ok {
				if err := validator.Validate(out); err != nil {
					logger.Debug("gemini json validation failed", zap.Int("attempt", attempt), zap.Error(err))
					retErr = errors.Join(retErr, fmt.Errorf("attempt %d: %w", attempt, err))
					continue
				}
			}
		}
		return *out, nil
	}
	c.history.Truncate(mark)
	return zero, retErr
}
