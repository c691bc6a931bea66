package metadata

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/vkuzn/packsync/internal/common"
	"github.com/vkuzn/packsync/internal/entity"
)

const (
	// Ext is the canonical descriptor file extension.
	Ext = ".toml"

	filePerm = 0o644
	dirPerm  = 0o755
)

// Store reads and writes canonical mod descriptors in a single directory.
// Descriptors are write-once: nothing here ever overwrites an existing file.
type Store struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) *Store {
	return NewStoreWithFS(afero.NewOsFs(), dir, log)
}

func NewStoreWithFS(fs afero.Fs, dir string, log *slog.Logger) *Store {
	return &Store{
		fs:  fs,
		dir: dir,
		log: log.With(slog.String("item", "MetadataStore")),
	}
}

// LoadAll reads every descriptor in the store directory. A descriptor
// without a filename key is ignored; an unparsable one is reported and
// skipped. A missing directory yields an empty set.
func (s *Store) LoadAll() ([]*entity.Descriptor, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("cannot read metadata dir %s: %w", s.dir, err)
	}

	var descriptors []*entity.Descriptor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return nil, fmt.Errorf("cannot read descriptor %s: %w", path, err)
		}

		var d entity.Descriptor
		if err := toml.Unmarshal(data, &d); err != nil {
			s.log.Error("Cannot parse descriptor", slog.String("path", path), slog.Any("error", err))

			continue
		}

		if d.Filename == "" {
			continue
		}

		descriptors = append(descriptors, &d)
	}

	return descriptors, nil
}

// Write persists one descriptor as <filename>.toml. Returns
// common.ErrDescriptorExistsError if the file is already there.
func (s *Store) Write(d *entity.Descriptor) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return fmt.Errorf("cannot encode descriptor %s: %w", d.Filename, err)
	}

	return s.WriteRaw(d.Filename+Ext, buf.Bytes())
}

// WriteRaw persists raw descriptor bytes under the given file name,
// refusing to touch an existing file.
func (s *Store) WriteRaw(name string, data []byte) error {
	path := filepath.Join(s.dir, name)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("cannot stat descriptor %s: %w", path, err)
	}
	if exists {
		return common.ErrDescriptorExistsError
	}

	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("cannot create metadata dir %s: %w", s.dir, err)
	}

	if err := afero.WriteFile(s.fs, path, data, filePerm); err != nil {
		return fmt.Errorf("cannot write descriptor %s: %w", path, err)
	}

	return nil
}
