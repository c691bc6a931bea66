package reconciler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/vkuzn/packsync/internal/common"
	"github.com/vkuzn/packsync/internal/entity"
)

const jarExt = ".jar"

type MetadataStore interface {
	LoadAll() ([]*entity.Descriptor, error)
}

type Fetcher interface {
	ResolveURL(d *entity.Descriptor) (string, error)
	Fetch(ctx context.Context, rawURL, dest string) error
}

// Confirmer answers one yes/no question per action category. The service
// itself never touches the terminal, so runs stay deterministic.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Service diffs the mods directory against the descriptor set and applies
// the resulting plan.
type Service struct {
	fs      afero.Fs
	store   MetadataStore
	fetcher Fetcher
	modsDir string
	keep    map[string]struct{}
	out     io.Writer
	log     *slog.Logger
}

func NewService(store MetadataStore, fetcher Fetcher, modsDir string, keep []string, log *slog.Logger) *Service {
	return NewServiceWithFS(afero.NewOsFs(), store, fetcher, modsDir, keep, log)
}

func NewServiceWithFS(fs afero.Fs, store MetadataStore, fetcher Fetcher, modsDir string, keep []string, log *slog.Logger) *Service {
	keepSet := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		keepSet[name] = struct{}{}
	}

	return &Service{
		fs:      fs,
		store:   store,
		fetcher: fetcher,
		modsDir: modsDir,
		keep:    keepSet,
		out:     os.Stdout,
		log:     log.With(slog.String("item", "Reconciler")),
	}
}

// SetOutput redirects operator-facing progress output (default stdout).
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// Plan computes the diff between the descriptor set and the mods
// directory. Needed files with no resolvable identifier are skipped with a
// warning and never scheduled for download.
func (s *Service) Plan() (*entity.Plan, error) {
	descriptors, err := s.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot load descriptors: %w", err)
	}

	plan := &entity.Plan{}
	needed := make(map[string]struct{}, len(descriptors))

	for _, d := range descriptors {
		needed[d.Filename] = struct{}{}

		exists, err := afero.Exists(s.fs, filepath.Join(s.modsDir, d.Filename))
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", d.Filename, err)
		}
		if exists {
			plan.Skipped++

			continue
		}

		rawURL, err := s.fetcher.ResolveURL(d)
		if err != nil {
			if errors.Is(err, common.ErrNoIdentifierError) {
				s.log.Warn("No download identifier, skipping", slog.String("filename", d.Filename))

				continue
			}

			return nil, fmt.Errorf("cannot resolve %s: %w", d.Filename, err)
		}

		plan.Downloads = append(plan.Downloads, &entity.Download{
			Name:     d.DisplayName(),
			Filename: d.Filename,
			URL:      rawURL,
		})
	}

	entries, err := afero.ReadDir(s.fs, s.modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return plan, nil
		}

		return nil, fmt.Errorf("cannot read mods dir %s: %w", s.modsDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, jarExt) {
			continue
		}
		if _, ok := needed[name]; ok {
			continue
		}
		if _, ok := s.keep[name]; ok {
			continue
		}

		plan.Deletions = append(plan.Deletions, name)
	}

	return plan, nil
}

// Apply executes the plan. Each action category is confirmed once as a
// whole; refusal skips the category in full. A failed download or delete
// is reported and never aborts the batch.
func (s *Service) Apply(ctx context.Context, plan *entity.Plan, confirm Confirmer) error {
	if len(plan.Deletions) > 0 {
		if confirm.Confirm(fmt.Sprintf("%d files need to be deleted. Continue?", len(plan.Deletions))) {
			s.deleteAll(plan.Deletions)
		} else {
			s.log.Info("Deletions declined, skipping")
		}
	}

	if len(plan.Downloads) > 0 {
		if confirm.Confirm(fmt.Sprintf("%d files need to be downloaded. Continue?", len(plan.Downloads))) {
			if err := s.downloadAll(ctx, plan.Downloads); err != nil {
				return err
			}
		} else {
			s.log.Info("Downloads declined, skipping")
		}
	}

	return nil
}

func (s *Service) deleteAll(names []string) {
	for _, name := range names {
		if err := s.fs.Remove(filepath.Join(s.modsDir, name)); err != nil {
			s.log.Error("Cannot delete file", slog.String("filename", name), slog.Any("error", err))

			continue
		}

		s.log.Info("Deleted file", slog.String("filename", name))
	}
}

func (s *Service) downloadAll(ctx context.Context, downloads []*entity.Download) error {
	if err := s.fs.MkdirAll(s.modsDir, 0o755); err != nil {
		return fmt.Errorf("cannot create mods dir %s: %w", s.modsDir, err)
	}

	for _, dl := range downloads {
		fmt.Fprintf(s.out, "Downloading %s...\n", dl.Name)

		if err := s.fetcher.Fetch(ctx, dl.URL, filepath.Join(s.modsDir, dl.Filename)); err != nil {
			s.log.Error("Cannot download file",
				slog.String("filename", dl.Filename),
				slog.String("url", dl.URL),
				slog.Any("error", err))

			continue
		}
	}

	return nil
}
