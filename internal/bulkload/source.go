package bulkload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

// Opener resolves a source address into a readable CSV stream.
type Opener interface {
	Open(ctx context.Context, address string) (io.ReadCloser, error)
}

// SourceOpener reads http(s) URLs with a streamed GET and everything else from
// the local filesystem.
type SourceOpener struct {
	client *http.Client
}

// NewSourceOpener builds an opener whose HTTP fetches are bounded by timeout.
// A non-positive timeout leaves the client unbounded.
func NewSourceOpener(timeout time.Duration) *SourceOpener {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &SourceOpener{client: client}
}

func isRemote(address string) bool {
	lower := strings.ToLower(address)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (o *SourceOpener) Open(ctx context.Context, address string) (io.ReadCloser, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fileAddress is required")
	}
	if isRemote(address) {
		return o.openRemote(ctx, address)
	}
	return openLocal(address)
}

func (o *SourceOpener) openRemote(ctx context.Context, address string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source url")
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("file not found: %s", address))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("file not found: %s (status %d)", address, resp.StatusCode))
	}
	return resp.Body, nil
}

func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("file not found: %s", path))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open source file")
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		f.Close()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("file not found: %s", path))
	}
	return f, nil
}
