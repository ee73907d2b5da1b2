package pipeline

// Status is the outcome of formatting one file.
type Status int

const (
	// StatusSuccess means the file was formatted.
	StatusSuccess Status = iota
	// StatusIgnored means the file is excluded by configuration.
	StatusIgnored
	// StatusError means the content could not be formatted.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusIgnored:
		return "ignored"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Result is the data outcome of Format. Content is set for StatusSuccess and
// Message for StatusError.
type Result struct {
	Status  Status
	Content string
	Message string
}

// Success returns a successful result carrying the formatted text.
func Success(content string) Result {
	return Result{Status: StatusSuccess, Content: content}
}

// Ignored returns a result for an excluded file.
func Ignored() Result {
	return Result{Status: StatusIgnored}
}

// Failed returns an error result with a human-readable message.
func Failed(msg string) Result {
	return Result{Status: StatusError, Message: msg}
}
