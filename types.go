package gemini

import (
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Content is one turn of a conversation.
type Content struct {
	Role  Role   `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

func UserContent(parts ...Part) Content {
	return Content{Role: RoleUser, Parts: parts}
}

func ModelContent(parts ...Part) Content {
	return Content{Role: RoleModel, Parts: parts}
}

// Text concatenates the text parts, skipping thoughts.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Part is a single piece of content. Exactly one of its fields is expected to be set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	InlineData       *Blob             `json:"inlineData,omitempty"`
	FileData         *FileData         `json:"fileData,omitempty"`
	VideoMetadata    *VideoMetadata    `json:"videoMetadata,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
	Thought          bool              `json:"thought,omitempty"`
}

// Blob is inline media. Data is base64 encoded on the wire.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// FileData references a file uploaded through the files API.
type FileData struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type VideoMetadata struct {
	StartOffset Offset `json:"startOffset"`
	EndOffset   Offset `json:"endOffset"`
}

type Offset struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type GenerationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	TopP             *float32 `json:"topP,omitempty"`
	TopK             *int32   `json:"topK,omitempty"`
	CandidateCount   *int32   `json:"candidateCount,omitempty"`
	MaxOutputTokens  *int32   `json:"maxOutputTokens,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	ResponseMimeType Mode     `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
}

// Clone copies c. The response schema is shared.
func (c GenerationConfig) Clone() GenerationConfig {
	out := c
	if c.Temperature != nil {
		v := *c.Temperature
		out.Temperature = &v
	}
	if c.TopP != nil {
		v := *c.TopP
		out.TopP = &v
	}
	if c.TopK != nil {
		v := *c.TopK
		out.TopK = &v
	}
	if c.CandidateCount != nil {
		v := *c.CandidateCount
		out.CandidateCount = &v
	}
	if c.MaxOutputTokens != nil {
		v := *c.MaxOutputTokens
		out.MaxOutputTokens = &v
	}
	if c.StopSequences != nil {
		out.StopSequences = append([]string(nil), c.StopSequences...)
	}
	return out
}

type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// GenerateContentRequest is the body of models/{model}:generateContent.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	Tools             []Tool            `json:"tools,omitempty"`
	SafetySettings    []SafetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
}

type CountTokensRequest struct {
	Contents []Content `json:"contents"`
}

type TokenCount struct {
	TotalTokens int32 `json:"totalTokens"`
}

type TaskType string

const (
	TaskTypeUnspecified        TaskType = "TASK_TYPE_UNSPECIFIED"
	TaskTypeRetrievalQuery     TaskType = "RETRIEVAL_QUERY"
	TaskTypeRetrievalDocument  TaskType = "RETRIEVAL_DOCUMENT"
	TaskTypeSemanticSimilarity TaskType = "SEMANTIC_SIMILARITY"
	TaskTypeClassification     TaskType = "CLASSIFICATION"
	TaskTypeClustering         TaskType = "CLUSTERING"
)

type EmbedContentRequest struct {
	Model                string   `json:"model"`
	Content              Content  `json:"content"`
	TaskType             TaskType `json:"taskType,omitempty"`
	Title                string   `json:"title,omitempty"`
	OutputDimensionality *int32   `json:"outputDimensionality,omitempty"`
}

type EmbedContentResponse struct {
	Embedding ContentEmbedding `json:"embedding"`
}

type ContentEmbedding struct {
	Values []float32 `json:"values"`
}

type Model struct {
	Name                       string   `json:"name"`
	BaseModelID                string   `json:"baseModelId,omitempty"`
	Version                    string   `json:"version"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	InputTokenLimit            int32    `json:"inputTokenLimit"`
	OutputTokenLimit           int32    `json:"outputTokenLimit"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	Temperature                *float32 `json:"temperature,omitempty"`
	MaxTemperature             *float32 `json:"maxTemperature,omitempty"`
	TopP                       *float32 `json:"topP,omitempty"`
	TopK                       *int32   `json:"topK,omitempty"`
}

// Supports reports whether the model lists method (e.g. "generateContent").
func (m Model) Supports(method string) bool {
	return slices.Contains(m.SupportedGenerationMethods, method)
}

type ModelList struct {
	Models        []Model `json:"models"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

type FileState string

const (
	FileStateUnspecified FileState = "STATE_UNSPECIFIED"
	FileStateProcessing  FileState = "PROCESSING"
	FileStateActive      FileState = "ACTIVE"
	FileStateFailed      FileState = "FAILED"
)

// File is the metadata of an uploaded file.
type File struct {
	Name           string    `json:"name"`
	DisplayName    string    `json:"displayName,omitempty"`
	MimeType       string    `json:"mimeType"`
	SizeBytes      string    `json:"sizeBytes,omitempty"`
	CreateTime     time.Time `json:"createTime"`
	UpdateTime     time.Time `json:"updateTime"`
	ExpirationTime time.Time `json:"expirationTime"`
	Sha256Hash     string    `json:"sha256Hash,omitempty"`
	URI            string    `json:"uri"`
	State          FileState `json:"state,omitempty"`
}

type FileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Schema is the OpenAPI subset the API accepts for response schemas and function parameters.
type Schema struct {
	Type             Type               `json:"type,omitempty"`
	Format           string             `json:"format,omitempty"`
	Description      string             `json:"description,omitempty"`
	Nullable         bool               `json:"nullable,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
	MaxItems         string             `json:"maxItems,omitempty"`
	MinItems         string             `json:"minItems,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Required         []string           `json:"required,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
}

type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)
