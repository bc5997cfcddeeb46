package entities

// FetchResult is the outcome of a successful ingestion. FileSize is
// human-readable, e.g. "1.5 MB".
type FetchResult struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	FileSize string `json:"fileSize"`
}

type FailureKind string

const (
	FailureCORS    FailureKind = "cors"
	FailureNetwork FailureKind = "network"
	FailureServer  FailureKind = "server"
	FailureTimeout FailureKind = "timeout"
	FailureUnknown FailureKind = "unknown"
)

// ValidationFailure explains why a URL probe rejected a source.
type ValidationFailure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Cause   error       `json:"-"`
}

func (f *ValidationFailure) Error() string {
	return f.Message
}

func (f *ValidationFailure) Unwrap() error {
	return f.Cause
}

type ValidationOutcome struct {
	Valid   bool               `json:"valid"`
	Failure *ValidationFailure `json:"failure,omitempty"`
}
