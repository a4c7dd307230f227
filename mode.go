package gemini

// Mode is the response MIME type requested through GenerationConfig.ResponseMimeType.
type Mode = string

const (
	ModeText    Mode = "text/plain"
	ModeJSON    Mode = "application/json"
	ModeEnum    Mode = "text/x.enum"
	ModeDefault Mode = ModeText
)
