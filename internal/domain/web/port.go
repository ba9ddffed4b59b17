package web

import "context"

// Fetcher retrieves and extracts a page. It never returns an error; failures
// are carried in ContentResult.Error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ContentResult
}
