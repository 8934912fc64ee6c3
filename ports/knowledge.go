package ports

import "context"

// InstantAnswer is a best-effort abstract for a free-text query
type InstantAnswer struct {
	Text      string
	Heading   string
	SourceURL string
}

// KnowledgeBase queries a public instant-answer service. Implementations
// are best-effort signal sources: they enforce their own timeout and
// prefer returning an empty answer over an error.
type KnowledgeBase interface {
	Query(ctx context.Context, query string) (InstantAnswer, error)
}
