// Package genaiconv converts between this library's wire types and the
// official github.com/google/generative-ai-go/genai SDK, so a conversation can
// move to the SDK when a feature such as streaming is needed.
package genaiconv

import (
	"context"
	"strconv"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	gemini "github.com/bububa/gemini-go"
)

// NewClient creates an SDK client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*genai.Client, error) {
	return genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
}

func ToPart(p gemini.Part) (genai.Part, bool) {
	switch {
	case p.Thought:
		return nil, false
	case p.InlineData != nil:
		return genai.Blob{MIMEType: p.InlineData.MimeType, Data: p.InlineData.Data}, true
	case p.FileData != nil:
		return genai.FileData{MIMEType: p.FileData.MimeType, URI: p.FileData.FileURI}, true
	case p.FunctionCall != nil:
		return genai.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}, true
	case p.FunctionResponse != nil:
		return genai.FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}, true
	case p.Text != "":
		return genai.Text(p.Text), true
	}
	return nil, false
}

// ToContent drops parts the SDK cannot express, such as thoughts.
func ToContent(c gemini.Content) *genai.Content {
	dist := &genai.Content{Role: string(c.Role)}
	for _, p := range c.Parts {
		if part, ok := ToPart(p); ok {
			dist.Parts = append(dist.Parts, part)
		}
	}
	return dist
}

func ToContents(list []gemini.Content) []*genai.Content {
	dist := make([]*genai.Content, 0, len(list))
	for _, c := range list {
		dist = append(dist, ToContent(c))
	}
	return dist
}

func FromPart(p genai.Part) (gemini.Part, bool) {
	switch v := p.(type) {
	case genai.Text:
		return gemini.TextPart(string(v)), true
	case genai.Blob:
		return gemini.Part{InlineData: &gemini.Blob{MimeType: v.MIMEType, Data: v.Data}}, true
	case genai.FileData:
		return gemini.FilePart(v.URI, v.MIMEType), true
	case genai.FunctionCall:
		return gemini.Part{FunctionCall: &gemini.FunctionCall{Name: v.Name, Args: v.Args}}, true
	case genai.FunctionResponse:
		return gemini.Part{FunctionResponse: &gemini.FunctionResponse{Name: v.Name, Response: v.Response}}, true
	}
	return gemini.Part{}, false
}

func FromContent(c *genai.Content) gemini.Content {
	if c == nil {
		return gemini.Content{}
	}
	dist := gemini.Content{Role: gemini.Role(c.Role)}
	for _, p := range c.Parts {
		if part, ok := FromPart(p); ok {
			dist.Parts = append(dist.Parts, part)
		}
	}
	return dist
}

var schemaTypes = map[gemini.Type]genai.Type{
	gemini.TypeObject:  genai.TypeObject,
	gemini.TypeArray:   genai.TypeArray,
	gemini.TypeString:  genai.TypeString,
	gemini.TypeInteger: genai.TypeInteger,
	gemini.TypeNumber:  genai.TypeNumber,
	gemini.TypeBoolean: genai.TypeBoolean,
}

func ToSchema(s *gemini.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	dist := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Format:      s.Format,
		Description: s.Description,
		Nullable:    s.Nullable,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       ToSchema(s.Items),
	}
	if n, err := strconv.ParseInt(s.MaxItems, 10, 64); err == nil {
		dist.MaxItems = n
	}
	if n, err := strconv.ParseInt(s.MinItems, 10, 64); err == nil {
		dist.MinItems = n
	}
	if len(s.Properties) > 0 {
		dist.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			dist.Properties[k] = ToSchema(v)
		}
	}
	return dist
}

var harmCategories = map[gemini.HarmCategory]genai.HarmCategory{
	gemini.HarmCategoryHarassment:       genai.HarmCategoryHarassment,
	gemini.HarmCategoryHateSpeech:       genai.HarmCategoryHateSpeech,
	gemini.HarmCategorySexuallyExplicit: genai.HarmCategorySexuallyExplicit,
	gemini.HarmCategoryDangerousContent: genai.HarmCategoryDangerousContent,
}

var harmBlockThresholds = map[gemini.HarmBlockThreshold]genai.HarmBlockThreshold{
	gemini.BlockLowAndAbove:    genai.HarmBlockLowAndAbove,
	gemini.BlockMediumAndAbove: genai.HarmBlockMediumAndAbove,
	gemini.BlockOnlyHigh:       genai.HarmBlockOnlyHigh,
	gemini.BlockNone:           genai.HarmBlockNone,
}

// ToSafetySettings keeps the settings the SDK has constants for.
func ToSafetySettings(settings []gemini.SafetySetting) []*genai.SafetySetting {
	var dist []*genai.SafetySetting
	for _, s := range settings {
		category, ok := harmCategories[s.Category]
		if !ok {
			continue
		}
		threshold, ok := harmBlockThresholds[s.Threshold]
		if !ok {
			continue
		}
		dist = append(dist, &genai.SafetySetting{Category: category, Threshold: threshold})
	}
	return dist
}

func ToGenerationConfig(c gemini.GenerationConfig) genai.GenerationConfig {
	return genai.GenerationConfig{
		CandidateCount:   c.CandidateCount,
		StopSequences:    c.StopSequences,
		MaxOutputTokens:  c.MaxOutputTokens,
		Temperature:      c.Temperature,
		TopP:             c.TopP,
		TopK:             c.TopK,
		ResponseMIMEType: c.ResponseMimeType,
		ResponseSchema:   ToSchema(c.ResponseSchema),
	}
}

// Session is the state a Chat hands over to the SDK.
type Session struct {
	SystemInstruction string
	Config            *gemini.GenerationConfig
	SafetySettings    []gemini.SafetySetting
	History           []gemini.Content
}

// StartChat configures model from s and opens an SDK chat seeded with its history.
func StartChat(model *genai.GenerativeModel, s Session) *genai.ChatSession {
	if s.SystemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(s.SystemInstruction))
	}
	if s.Config != nil {
		model.GenerationConfig = ToGenerationConfig(*s.Config)
	}
	if len(s.SafetySettings) > 0 {
		model.SafetySettings = ToSafetySettings(s.SafetySettings)
	}
	cs := model.StartChat()
	cs.History = ToContents(s.History)
	return cs
}

// FromResponse collects the first candidate of an SDK response as a model turn.
func FromResponse(resp *genai.GenerateContentResponse) (gemini.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return gemini.Content{}, gemini.ErrEmptyResponse
	}
	c := FromContent(resp.Candidates[0].Content)
	c.Role = gemini.RoleModel
	return c, nil
}

// SessionFrom captures the state of c.
func SessionFrom(c *gemini.Chat) Session {
	return Session{
		SystemInstruction: c.Instruction(),
		Config:            c.GenerationConfig(),
		SafetySettings:    c.Safety(),
		History:           c.History(),
	}
}
