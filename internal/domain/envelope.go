package domain

import "time"

// Completeness describes how complete the data in a response is.
type Completeness string

const (
	CompletenessComplete   Completeness = "complete"
	CompletenessPartial    Completeness = "partial"
	CompletenessIncomplete Completeness = "incomplete"
)

// Metadata describes the provenance and quality of a response payload.
type Metadata struct {
	DataCompleteness Completeness `json:"data_completeness"`
	LastUpdated      string       `json:"last_updated"`
	Source           string       `json:"source"`
	ConfidenceScore  *float64     `json:"confidence_score,omitempty"`
}

// Response is the uniform success envelope returned from every request.
// Status is always in the 2xx range and Data is never nil.
type Response struct {
	Status  int      `json:"status"`
	Data    any      `json:"data"`
	Message string   `json:"message,omitempty"`
	Meta    Metadata `json:"metadata"`
}

// Option configures an envelope built by Success, Partial or Cached.
type Option func(*Response)

// WithStatus sets the envelope HTTP status.
func WithStatus(status int) Option {
	return func(r *Response) { r.Status = status }
}

// WithMessage sets an optional human-readable message.
func WithMessage(message string) Option {
	return func(r *Response) { r.Message = message }
}

// WithSource sets the metadata source label.
func WithSource(source string) Option {
	return func(r *Response) { r.Meta.Source = source }
}

// WithConfidence sets the metadata confidence score.
func WithConfidence(score float64) Option {
	return func(r *Response) { r.Meta.ConfidenceScore = &score }
}

// WithCompleteness sets the metadata data completeness.
func WithCompleteness(c Completeness) Option {
	return func(r *Response) { r.Meta.DataCompleteness = c }
}

// WithLastUpdated overrides the metadata timestamp.
func WithLastUpdated(t time.Time) Option {
	return func(r *Response) { r.Meta.LastUpdated = t.UTC().Format(time.RFC3339) }
}

// Success builds a success envelope around data. Defaults: status 200,
// completeness complete, source "API", last_updated now. Options win over
// defaults; the timestamp is taken at call time.
func Success(data any, opts ...Option) *Response {
	r := &Response{
		Status: 200,
		Data:   data,
		Meta: Metadata{
			DataCompleteness: CompletenessComplete,
			LastUpdated:      time.Now().UTC().Format(time.RFC3339),
			Source:           "API",
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Partial builds a success envelope whose completeness is always partial,
// regardless of options.
func Partial(data any, opts ...Option) *Response {
	r := Success(data, opts...)
	r.Meta.DataCompleteness = CompletenessPartial
	return r
}

// Cached builds a success envelope for a cache hit: source is always "Cache"
// and last_updated is always the entry's creation time, regardless of options.
func Cached(data any, cachedAt time.Time, opts ...Option) *Response {
	r := Success(data, opts...)
	r.Meta.Source = "Cache"
	r.Meta.LastUpdated = cachedAt.UTC().Format(time.RFC3339)
	return r
}
