package gemini

import (
	"net/http"
	"strconv"
)

// ListModels is GET models.
type ListModels struct {
	pageSize  int
	pageToken string
}

func (r *ListModels) PageSize(size int) {
	r.pageSize = size
}

func (r *ListModels) PageToken(token string) {
	r.pageToken = token
}

func (r *ListModels) Method() string { return http.MethodGet }

func (r *ListModels) FormatURI(b *URIBuilder) {
	b.WritePath("models")
	if r.pageSize > 0 {
		b.WriteQueryParam("pageSize", strconv.Itoa(r.pageSize))
	}
	b.WriteOptionalQueryParam("pageToken", r.pageToken)
}

func (r *ListModels) Body() any { return nil }

// GetModel is GET models/{name}.
type GetModel struct {
	name string
}

func (r *GetModel) Method() string { return http.MethodGet }

func (r *GetModel) FormatURI(b *URIBuilder) {
	b.WritePath("models/", r.name)
}

func (r *GetModel) Body() any { return nil }

// GenerateContent is POST models/{model}:generateContent.
type GenerateContent struct {
	model string
	body  GenerateContentRequest
}

func NewGenerateContent(model string) *GenerateContent {
	return &GenerateContent{model: modelName(model)}
}

func (r *GenerateContent) Config(config GenerationConfig) {
	r.body.GenerationConfig = &config
}

func (r *GenerateContent) SystemInstruction(instruction string) {
	r.body.SystemInstruction = &Content{
		Parts: []Part{TextPart(instruction)},
	}
}

func (r *GenerateContent) Contents(contents []Content) {
	r.body.Contents = contents
}

// Message appends a user turn holding text.
func (r *GenerateContent) Message(text string) {
	r.body.Contents = append(r.body.Contents, UserContent(TextPart(text)))
}

func (r *GenerateContent) SafetySettings(settings ...SafetySetting) {
	r.body.SafetySettings = settings
}

func (r *GenerateContent) Tools(tools ...Tool) {
	r.body.Tools = tools
}

// Payload returns the request body as it will be sent.
func (r *GenerateContent) Payload() *GenerateContentRequest {
	return &r.body
}

func (r *GenerateContent) Method() string { return http.MethodPost }

func (r *GenerateContent) FormatURI(b *URIBuilder) {
	b.WritePath("models/", r.model, ":generateContent")
}

func (r *GenerateContent) Body() any { return &r.body }

// CountTokens is POST models/{model}:countTokens.
type CountTokens struct {
	model string
	body  CountTokensRequest
}

func (r *CountTokens) Contents(contents []Content) {
	r.body.Contents = contents
}

func (r *CountTokens) Message(text string) {
	r.body.Contents = append(r.body.Contents, UserContent(TextPart(text)))
}

func (r *CountTokens) Method() string { return http.MethodPost }

func (r *CountTokens) FormatURI(b *URIBuilder) {
	b.WritePath("models/", r.model, ":countTokens")
}

func (r *CountTokens) Body() any { return &r.body }

// EmbedContent is POST models/{model}:embedContent.
type EmbedContent struct {
	model string
	body  EmbedContentRequest
}

func (r *EmbedContent) Text(text string) {
	r.body.Content = Content{Parts: []Part{TextPart(text)}}
}

func (r *EmbedContent) TaskType(taskType TaskType) {
	r.body.TaskType = taskType
}

func (r *EmbedContent) Title(title string) {
	r.body.Title = title
}

func (r *EmbedContent) OutputDimensionality(n int32) {
	r.body.OutputDimensionality = &n
}

func (r *EmbedContent) Method() string { return http.MethodPost }

func (r *EmbedContent) FormatURI(b *URIBuilder) {
	b.WritePath("models/", r.model, ":embedContent")
}

func (r *EmbedContent) Body() any {
	r.body.Model = "models/" + r.model
	return &r.body
}

// ListFiles is GET files.
type ListFiles struct {
	pageSize  int
	pageToken string
}

func (r *ListFiles) PageSize(size int) {
	r.pageSize = size
}

func (r *ListFiles) PageToken(token string) {
	r.pageToken = token
}

func (r *ListFiles) Method() string { return http.MethodGet }

func (r *ListFiles) FormatURI(b *URIBuilder) {
	b.WritePath("files")
	if r.pageSize > 0 {
		b.WriteQueryParam("pageSize", strconv.Itoa(r.pageSize))
	}
	b.WriteOptionalQueryParam("pageToken", r.pageToken)
}

func (r *ListFiles) Body() any { return nil }

// GetFile is GET files/{id}.
type GetFile struct {
	name string
}

func (r *GetFile) Method() string { return http.MethodGet }

func (r *GetFile) FormatURI(b *URIBuilder) {
	b.WritePath(r.name)
}

func (r *GetFile) Body() any { return nil }

// DeleteFile is DELETE files/{id}.
type DeleteFile struct {
	name string
}

func (r *DeleteFile) Method() string { return http.MethodDelete }

func (r *DeleteFile) FormatURI(b *URIBuilder) {
	b.WritePath(r.name)
}

func (r *DeleteFile) Body() any { return nil }

var (
	_ Request = (*ListModels)(nil)
	_ Request = (*GetModel)(nil)
	_ Request = (*GenerateContent)(nil)
	_ Request = (*CountTokens)(nil)
	_ Request = (*EmbedContent)(nil)
	_ Request = (*ListFiles)(nil)
	_ Request = (*GetFile)(nil)
	_ Request = (*DeleteFile)(nil)
)
