package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"github.com/vkuzn/packsync/internal/common"
	"github.com/vkuzn/packsync/internal/entity"
)

const (
	// CurseForge serves release artifacts straight off its CDN; the path is
	// the file-id split into all-but-last-three and last-three digits.
	cdnBaseURL = "https://edge.forgecdn.net/files"

	chunkSize = 512 * 1024
	filePerm  = 0o644
)

// Repository resolves descriptor identifiers to download locations and
// streams the artifacts to disk.
type Repository struct {
	fs     afero.Fs
	client *http.Client
	base   string
	log    *slog.Logger
}

func NewRepository(log *slog.Logger) *Repository {
	return NewRepositoryWithFS(afero.NewOsFs(), http.DefaultClient, cdnBaseURL, log)
}

func NewRepositoryWithFS(fs afero.Fs, client *http.Client, base string, log *slog.Logger) *Repository {
	return &Repository{
		fs:     fs,
		client: client,
		base:   base,
		log:    log.With(slog.String("item", "FetchRepository")),
	}
}

// ResolveURL builds the download location for a descriptor. A CurseForge
// file-id wins over a Modrinth URL when both are present. Returns
// common.ErrNoIdentifierError when the descriptor carries neither.
func (r *Repository) ResolveURL(d *entity.Descriptor) (string, error) {
	if d.Update != nil {
		if cf := d.Update.CurseForge; cf != nil && cf.FileID > 0 {
			first, last := splitFileID(strconv.FormatInt(cf.FileID, 10))

			return fmt.Sprintf("%s/%s/%s/%s", r.base, first, last, url.PathEscape(d.Filename)), nil
		}

		if mr := d.Update.Modrinth; mr != nil && mr.URL != "" {
			return mr.URL, nil
		}
	}

	return "", common.ErrNoIdentifierError
}

// Fetch streams rawURL into dest in fixed-size chunks, truncating any
// partial content from an earlier run.
func (r *Repository) Fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("cannot build request for %s: %w", rawURL, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s fetching %s", common.ErrUnexpectedStatusError, resp.Status, rawURL)
	}

	out, err := r.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dest, err)
	}
	defer out.Close()

	written, err := io.CopyBuffer(out, resp.Body, make([]byte, chunkSize))
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", dest, err)
	}

	r.log.Debug("Fetched file", slog.String("dest", dest), slog.Int64("bytes", written))

	return nil
}

func splitFileID(id string) (string, string) {
	if len(id) <= 3 {
		return "", id
	}

	return id[:len(id)-3], id[len(id)-3:]
}
