package harvest

import "context"

// Content is the result of an in-memory retrieval: the full response body
// together with the content type declared by the server.
type Content struct {
	Body        []byte
	ContentType string
}

// Retriever fetches a resource over the network with bounded retries.
// Implementations hide transport details, retry/backoff policy, and the
// politeness delay between requests.
//
// Both operations are all-or-nothing: a destination file is either fully
// written or not created, and an exhausted retry budget yields an error
// rather than a partial result. Each call is self-contained; no state is
// retained between calls.
type Retriever interface {
	// FetchToFile downloads url and writes the complete body to dest,
	// creating parent directories as needed.
	FetchToFile(ctx context.Context, url, dest string) error

	// FetchToMemory downloads url and returns the body with its declared
	// content type.
	FetchToMemory(ctx context.Context, url string) (*Content, error)
}
