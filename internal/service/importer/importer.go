package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/vkuzn/packsync/internal/adapter/metadata"
	"github.com/vkuzn/packsync/internal/common"
	"github.com/vkuzn/packsync/internal/entity"
)

type MetadataStore interface {
	Write(d *entity.Descriptor) error
	WriteRaw(name string, data []byte) error
}

type IndexParser interface {
	Parse(path string) ([]*entity.IndexEntry, error)
}

// Service normalizes an external mod list into canonical descriptors.
// It only ever adds descriptors; existing ones are left byte-identical.
type Service struct {
	fs     afero.Fs
	store  MetadataStore
	parser IndexParser
	log    *slog.Logger
}

func NewService(store MetadataStore, parser IndexParser, log *slog.Logger) *Service {
	return NewServiceWithFS(afero.NewOsFs(), store, parser, log)
}

func NewServiceWithFS(fs afero.Fs, store MetadataStore, parser IndexParser, log *slog.Logger) *Service {
	return &Service{
		fs:     fs,
		store:  store,
		parser: parser,
		log:    log.With(slog.String("item", "ImportService")),
	}
}

// Import ingests the source at path. A directory is treated as
// already-canonical descriptor files and copied verbatim; a regular file
// is parsed as a launcher index. A missing source is a no-op, a malformed
// index is reported and skipped without failing the run.
func (s *Service) Import(path string) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("No import source found", slog.String("path", path))

			return nil
		}

		return fmt.Errorf("cannot stat import source %s: %w", path, err)
	}

	if info.IsDir() {
		return s.importDir(path)
	}

	return s.importIndex(path)
}

func (s *Service) importDir(path string) error {
	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return fmt.Errorf("cannot read import dir %s: %w", path, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), metadata.Ext) {
			continue
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(path, entry.Name()))
		if err != nil {
			return fmt.Errorf("cannot read descriptor %s: %w", entry.Name(), err)
		}

		if err := s.store.WriteRaw(entry.Name(), data); err != nil {
			if errors.Is(err, common.ErrDescriptorExistsError) {
				continue
			}

			return fmt.Errorf("cannot import descriptor %s: %w", entry.Name(), err)
		}

		s.log.Info("Imported descriptor", slog.String("name", entry.Name()))
	}

	return nil
}

func (s *Service) importIndex(path string) error {
	entries, err := s.parser.Parse(path)
	if err != nil {
		s.log.Error("Cannot load index, skipping import", slog.String("path", path), slog.Any("error", err))

		return nil
	}

	for _, entry := range entries {
		d := &entity.Descriptor{
			Name:     entry.Name,
			Filename: entry.Filename,
		}
		if entry.HasID {
			d.Update = &entity.Update{
				CurseForge: &entity.CurseForge{FileID: entry.FileID},
			}
		}

		if err := s.store.Write(d); err != nil {
			if errors.Is(err, common.ErrDescriptorExistsError) {
				continue
			}

			return fmt.Errorf("cannot import entry %s: %w", entry.Filename, err)
		}

		s.log.Info("Imported entry", slog.String("filename", entry.Filename))
	}

	return nil
}
