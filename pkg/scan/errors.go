package scan

// ValidationError marks input the caller can fix: empty content, content
// over the size limits, unsupported file formats. HTTP handlers map it
// to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(msg string) error {
	return &ValidationError{Message: msg}
}

// ExtractionError marks content that was accepted but could not be
// converted to analyzable text (failed transcription). HTTP handlers map
// it to a 422 response.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string { return e.Message }
