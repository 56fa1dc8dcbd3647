package port

import "context"

type FileDownloader interface {
	// Download fetches the byte content behind a URL.
	Download(ctx context.Context, url string) ([]byte, error)
}
