package gemini

// Encoder turns the text of a model reply into a Go value.
type Encoder interface {
	Unmarshal([]byte, any) error
}

// Validator is implemented by encoders that can check a decoded value.
type Validator interface {
	Validate(any) error
}
