// Package openaicompat talks to Gemini through its OpenAI compatible endpoint
// with github.com/sashabaranov/go-openai, converting history both ways.
package openaicompat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	gemini "github.com/bububa/gemini-go"
)

// BaseURL is the OpenAI compatible root of the Generative Language API.
const BaseURL = gemini.DefaultBaseURL + "/" + gemini.DefaultAPIVersion + "/openai"

var ErrNoChoices = errors.New("gemini: openai completion has no choices")

type Option func(*openai.ClientConfig)

func WithBaseURL(baseURL string) Option {
	return func(c *openai.ClientConfig) {
		c.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *openai.ClientConfig) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// NewClient returns a go-openai client pointed at BaseURL.
func NewClient(apiKey string, opts ...Option) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = BaseURL
	for _, opt := range opts {
		opt(&config)
	}
	return openai.NewClientWithConfig(config)
}

// Messages converts a system instruction and a history into chat messages.
// Inline images become image_url parts carrying a data URI. Other media is
// not understood by the endpoint and is skipped.
func Messages(system string, history []gemini.Content) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, content := range history {
		msgs = append(msgs, ToMessage(content))
	}
	return msgs
}

func ToMessage(content gemini.Content) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if content.Role == gemini.RoleModel {
		msg.Role = openai.ChatMessageRoleAssistant
	}
	var images int
	for _, p := range content.Parts {
		if p.InlineData != nil && strings.HasPrefix(p.InlineData.MimeType, "image/") {
			images++
		}
	}
	if images == 0 {
		msg.Content = content.Text()
		return msg
	}
	for _, p := range content.Parts {
		switch {
		case p.Thought:
		case p.Text != "":
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		case p.InlineData != nil && strings.HasPrefix(p.InlineData.MimeType, "image/"):
			uri := fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, base64.StdEncoding.EncodeToString(p.InlineData.Data))
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: uri, Detail: openai.ImageURLDetailAuto},
			})
		}
	}
	return msg
}

// FromMessage converts a completion message back into a history turn.
func FromMessage(msg openai.ChatCompletionMessage) gemini.Content {
	role := gemini.RoleUser
	if msg.Role == openai.ChatMessageRoleAssistant {
		role = gemini.RoleModel
	}
	if msg.Content != "" || len(msg.MultiContent) == 0 {
		return gemini.Content{Role: role, Parts: []gemini.Part{gemini.TextPart(msg.Content)}}
	}
	content := gemini.Content{Role: role}
	for _, p := range msg.MultiContent {
		if p.Type == openai.ChatMessagePartTypeText {
			content.Parts = append(content.Parts, gemini.TextPart(p.Text))
		}
	}
	return content
}

// Request builds a chat completion request. config may be nil.
func Request(model, system string, history []gemini.Content, config *gemini.GenerationConfig) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    strings.TrimPrefix(model, "models/"),
		Messages: Messages(system, history),
	}
	if config == nil {
		return req
	}
	if config.Temperature != nil {
		req.Temperature = *config.Temperature
	}
	if config.TopP != nil {
		req.TopP = *config.TopP
	}
	if config.MaxOutputTokens != nil {
		req.MaxTokens = int(*config.MaxOutputTokens)
	}
	if config.CandidateCount != nil {
		req.N = int(*config.CandidateCount)
	}
	req.Stop = config.StopSequences
	if config.ResponseMimeType == gemini.ModeJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

// Complete sends the history and returns the first choice as a model turn.
func Complete(ctx context.Context, client *openai.Client, req openai.ChatCompletionRequest) (gemini.Content, error) {
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return gemini.Content{}, err
	}
	if len(resp.Choices) == 0 {
		return gemini.Content{}, ErrNoChoices
	}
	return FromMessage(resp.Choices[0].Message), nil
}
