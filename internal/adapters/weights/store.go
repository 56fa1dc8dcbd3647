package weights

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Store is the on-disk weight cache. Files are keyed by their release URL
// basename inside a single directory. Concurrent first-time downloads of
// the same file are not synchronized; weight files are immutable once
// published, so the last writer winning is tolerable.
type Store struct {
	dir    string
	client *http.Client
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, client: &http.Client{}}
}

// EnsureLocal returns local paths for the given URLs in order, downloading
// whatever is missing from the cache directory. Already-cached files are
// never fetched again.
func (s *Store) EnsureLocal(ctx context.Context, urls []string) ([]string, error) {
	paths := make([]string, 0, len(urls))

	for _, url := range urls {
		local := filepath.Join(s.dir, path.Base(url))

		if _, err := os.Stat(local); err == nil {
			log.Debug().Str("path", local).Msg("weight file cached")
			paths = append(paths, local)
			continue
		}

		if err := s.download(ctx, url, local); err != nil {
			return nil, err
		}

		paths = append(paths, local)
	}

	return paths, nil
}

func (s *Store) download(ctx context.Context, url, local string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating weights dir: %v", domain.ErrDownloadFailed, err)
	}

	log.Info().Str("url", url).Str("path", local).Msg("downloading weight file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d for %s", domain.ErrDownloadFailed, res.StatusCode, url)
	}

	// Write to a partial file first so an aborted fetch never satisfies a
	// later cache check.
	partial := local + ".partial"
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	written, err := io.Copy(f, &progressReader{r: res.Body, total: res.ContentLength, url: url})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	if err := os.Rename(partial, local); err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	log.Info().Str("path", local).Int64("bytes", written).Msg("weight file downloaded")

	return nil
}

// progressReader reports download progress at ten percent steps.
type progressReader struct {
	r       io.Reader
	total   int64
	url     string
	read    int64
	lastPct int64
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)

	if p.total > 0 {
		pct := p.read * 100 / p.total
		if pct >= p.lastPct+10 {
			p.lastPct = pct - pct%10
			log.Debug().Str("url", p.url).Int64("percent", p.lastPct).Msg("download progress")
		}
	}

	return n, err
}
