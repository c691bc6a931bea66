package packager

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewServiceWithFS(fs, log), fs
}

func readZip(t *testing.T, fs afero.Fs, path string) map[string][]byte {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		entries[f.Name] = content
	}

	return entries
}

func TestBuildLaysOutPrefixes(t *testing.T) {
	svc, fs := newTestService(t)

	require.NoError(t, afero.WriteFile(fs, "mmc-pack.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "minecraft/mods/a.jar", []byte("jar-a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "minecraft/config/mod.cfg", []byte("cfg"), 0o644))

	sources := []Source{
		{Path: "mmc-pack.json"},
		{Path: "minecraft/mods", Prefix: "minecraft/mods"},
		{Path: "minecraft/config", Prefix: "minecraft/config"},
	}
	require.NoError(t, svc.Build(sources, "build/modpack-latest.zip"))

	entries := readZip(t, fs, "build/modpack-latest.zip")
	require.Len(t, entries, 3)
	require.Equal(t, []byte("{}"), entries["mmc-pack.json"])
	require.Equal(t, []byte("jar-a"), entries["minecraft/mods/a.jar"])
	require.Equal(t, []byte("cfg"), entries["minecraft/config/mod.cfg"])
}

func TestBuildDeduplicatesByArchiveName(t *testing.T) {
	svc, fs := newTestService(t)

	// same mod reachable from a standalone mods/ dir and the instance tree;
	// first source wins
	require.NoError(t, afero.WriteFile(fs, "mods/a.jar", []byte("standalone"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "minecraft/mods/a.jar", []byte("instance"), 0o644))

	sources := []Source{
		{Path: "mods", Prefix: "minecraft/mods"},
		{Path: "minecraft/mods", Prefix: "minecraft/mods"},
	}
	require.NoError(t, svc.Build(sources, "out.zip"))

	entries := readZip(t, fs, "out.zip")
	require.Len(t, entries, 1)
	require.Equal(t, []byte("standalone"), entries["minecraft/mods/a.jar"])
}

func TestBuildSkipsMissingSources(t *testing.T) {
	svc, fs := newTestService(t)

	require.NoError(t, afero.WriteFile(fs, "minecraft/mods/a.jar", []byte("jar"), 0o644))

	sources := []Source{
		{Path: "minecraft/resourcepacks", Prefix: "minecraft/resourcepacks"},
		{Path: "minecraft/mods", Prefix: "minecraft/mods"},
	}
	require.NoError(t, svc.Build(sources, "out.zip"))

	entries := readZip(t, fs, "out.zip")
	require.Len(t, entries, 1)
}

func TestEnsureInstanceCfgGeneratesFromPackManifest(t *testing.T) {
	svc, fs := newTestService(t)

	manifest := `{"components": [
		{"uid": "net.minecraftforge", "version": "14.23.5"},
		{"uid": "net.minecraft", "version": "1.12.2"}
	]}`
	require.NoError(t, afero.WriteFile(fs, "mmc-pack.json", []byte(manifest), 0o644))

	require.NoError(t, svc.EnsureInstanceCfg(".", "Modpack"))

	data, err := afero.ReadFile(fs, "instance.cfg")
	require.NoError(t, err)

	text := string(data)
	require.Contains(t, text, "[Instance]")
	require.Contains(t, text, "name=Modpack")
	require.Contains(t, text, "mcVersion=1.12.2")
}

func TestEnsureInstanceCfgWithoutManifest(t *testing.T) {
	svc, fs := newTestService(t)

	require.NoError(t, svc.EnsureInstanceCfg(".", "Modpack"))

	data, err := afero.ReadFile(fs, "instance.cfg")
	require.NoError(t, err)
	require.NotContains(t, string(data), "mcVersion")
}

func TestEnsureInstanceCfgLeavesExistingAlone(t *testing.T) {
	svc, fs := newTestService(t)

	original := []byte("[Instance]\nname=My Pack\n")
	require.NoError(t, afero.WriteFile(fs, "instance.cfg", original, 0o644))

	require.NoError(t, svc.EnsureInstanceCfg(".", "Modpack"))

	data, err := afero.ReadFile(fs, "instance.cfg")
	require.NoError(t, err)
	require.Equal(t, original, data)
}
