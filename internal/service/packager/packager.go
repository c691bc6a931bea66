package packager

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	instanceCfgName = "instance.cfg"
	mmcPackName     = "mmc-pack.json"
	minecraftUID    = "net.minecraft"

	filePerm = 0o644
	dirPerm  = 0o755
)

// Source is one input to the archive: a directory walked recursively under
// Prefix, or a single file stored as Prefix (basename when empty).
type Source struct {
	Path   string
	Prefix string
}

// Service packages an instance directory tree into a distributable zip.
type Service struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return NewServiceWithFS(afero.NewOsFs(), log)
}

func NewServiceWithFS(fs afero.Fs, log *slog.Logger) *Service {
	return &Service{
		fs:  fs,
		log: log.With(slog.String("item", "Packager")),
	}
}

// Build writes a zip of the given sources to output. The first occurrence
// of an archive name wins; a file present in several sources (mods both at
// the instance root and under minecraft/) is stored once. Missing sources
// are reported and skipped.
func (s *Service) Build(sources []Source, output string) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("cannot create output dir %s: %w", dir, err)
		}
	}

	out, err := s.fs.Create(output)
	if err != nil {
		return fmt.Errorf("cannot create archive %s: %w", output, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	seen := make(map[string]struct{})

	for _, src := range sources {
		info, err := s.fs.Stat(src.Path)
		if err != nil {
			s.log.Warn("Source path does not exist, skipping", slog.String("path", src.Path))

			continue
		}

		if info.IsDir() {
			err = s.addDir(zw, seen, src)
		} else {
			err = s.addFile(zw, seen, src)
		}
		if err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("cannot finalize archive %s: %w", output, err)
	}

	return nil
}

func (s *Service) addDir(zw *zip.Writer, seen map[string]struct{}, src Source) error {
	return afero.Walk(s.fs, src.Path, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src.Path, path)
		if err != nil {
			return fmt.Errorf("cannot relativize %s: %w", path, err)
		}

		return s.writeEntry(zw, seen, arcName(src.Prefix, rel), path)
	})
}

func (s *Service) addFile(zw *zip.Writer, seen map[string]struct{}, src Source) error {
	name := src.Prefix
	if name == "" {
		name = filepath.Base(src.Path)
	}

	return s.writeEntry(zw, seen, name, src.Path)
}

func (s *Service) writeEntry(zw *zip.Writer, seen map[string]struct{}, name, path string) error {
	if _, ok := seen[name]; ok {
		s.log.Debug("Duplicate archive name, skipping", slog.String("name", name), slog.String("path", path))

		return nil
	}
	seen[name] = struct{}{}

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create archive entry %s: %w", name, err)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("cannot write archive entry %s: %w", name, err)
	}

	return nil
}

// EnsureInstanceCfg generates instance.cfg in instanceDir when absent, so
// launchers that look for it instead of mmc-pack.json accept the archive.
// The minecraft version is lifted from mmc-pack.json on a best-effort
// basis; a user-provided instance.cfg is left untouched.
func (s *Service) EnsureInstanceCfg(instanceDir, packName string) error {
	cfgPath := filepath.Join(instanceDir, instanceCfgName)

	exists, err := afero.Exists(s.fs, cfgPath)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", cfgPath, err)
	}
	if exists {
		return nil
	}

	var b strings.Builder
	b.WriteString("[Instance]\n")
	fmt.Fprintf(&b, "name=%s\n", packName)
	if version := s.minecraftVersion(filepath.Join(instanceDir, mmcPackName)); version != "" {
		fmt.Fprintf(&b, "mcVersion=%s\n", version)
	}

	if err := afero.WriteFile(s.fs, cfgPath, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("cannot write %s: %w", cfgPath, err)
	}

	s.log.Info("Generated instance.cfg", slog.String("path", cfgPath))

	return nil
}

func (s *Service) minecraftVersion(packPath string) string {
	data, err := afero.ReadFile(s.fs, packPath)
	if err != nil {
		return ""
	}

	var pack struct {
		Components []struct {
			UID     string `json:"uid"`
			Version string `json:"version"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &pack); err != nil {
		s.log.Warn("Cannot parse mmc-pack.json", slog.Any("error", err))

		return ""
	}

	for _, comp := range pack.Components {
		if comp.UID == minecraftUID {
			return comp.Version
		}
	}

	return ""
}

func arcName(prefix, rel string) string {
	if prefix == "" {
		return filepath.ToSlash(rel)
	}

	return filepath.ToSlash(filepath.Join(prefix, rel))
}
