package prism

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) (*Parser, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewParserWithFS(fs, log), fs
}

func TestParseArrayIndex(t *testing.T) {
	parser, fs := newTestParser(t)

	index := `[
		{"fileName": "ae2.jar", "name": "Applied Energistics 2", "curseforgeProjectID": "4567891"},
		{"filename": "jei.jar", "fileID": 1234567},
		{"name": "no filename, dropped"}
	]`
	require.NoError(t, afero.WriteFile(fs, ".index", []byte(index), 0o644))

	entries, err := parser.Parse(".index")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "ae2.jar", entries[0].Filename)
	require.Equal(t, "Applied Energistics 2", entries[0].Name)
	require.True(t, entries[0].HasID)
	require.EqualValues(t, 4567891, entries[0].FileID)

	// name defaults to the filename
	require.Equal(t, "jei.jar", entries[1].Name)
	require.True(t, entries[1].HasID)
	require.EqualValues(t, 1234567, entries[1].FileID)
}

func TestParseModsObjectIndex(t *testing.T) {
	parser, fs := newTestParser(t)

	index := `{"mods": [
		{"filename": "sodium.jar", "update": {"curseforge": {"file-id": 1111111}}},
		{"filename": "plain.jar"}
	]}`
	require.NoError(t, afero.WriteFile(fs, ".index", []byte(index), 0o644))

	entries, err := parser.Parse(".index")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.True(t, entries[0].HasID)
	require.EqualValues(t, 1111111, entries[0].FileID)

	require.False(t, entries[1].HasID)
}

func TestParseIDKeyPrecedence(t *testing.T) {
	parser, fs := newTestParser(t)

	index := `[{"filename": "a.jar", "curseforge_project_id": 1, "fileID": 2}]`
	require.NoError(t, afero.WriteFile(fs, ".index", []byte(index), 0o644))

	entries, err := parser.Parse(".index")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.EqualValues(t, 1, entries[0].FileID)
}

func TestParseMalformedIndex(t *testing.T) {
	parser, fs := newTestParser(t)

	require.NoError(t, afero.WriteFile(fs, ".index", []byte("{not json"), 0o644))

	_, err := parser.Parse(".index")
	require.Error(t, err)
}

func TestParseObjectWithoutModsKey(t *testing.T) {
	parser, fs := newTestParser(t)

	require.NoError(t, afero.WriteFile(fs, ".index", []byte(`{"something": 1}`), 0o644))

	entries, err := parser.Parse(".index")
	require.NoError(t, err)
	require.Empty(t, entries)
}
