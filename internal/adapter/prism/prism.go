package prism

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/afero"

	"github.com/vkuzn/packsync/internal/entity"
)

// Launchers are not consistent about where the CurseForge id lives, so the
// parser probes a fixed chain of key spellings in order.
var idKeys = []string{"curseforge_project_id", "curseforgeProjectID", "fileID"}

// Parser reads the mod index some launchers drop next to the mods
// directory: either a bare JSON array of entries or an object with a
// "mods" array.
type Parser struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	return NewParserWithFS(afero.NewOsFs(), log)
}

func NewParserWithFS(fs afero.Fs, log *slog.Logger) *Parser {
	return &Parser{
		fs:  fs,
		log: log.With(slog.String("item", "PrismParser")),
	}
}

// Parse reads the index at path. Entries without a filename are dropped
// silently; everything else survives even when no id could be found.
func (p *Parser) Parse(path string) ([]*entity.IndexEntry, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read index %s: %w", path, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse index %s: %w", path, err)
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["mods"].([]any)
	}

	var entries []*entity.IndexEntry
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		filename := stringValue(m["filename"])
		if filename == "" {
			filename = stringValue(m["fileName"])
		}
		if filename == "" {
			continue
		}

		name := stringValue(m["name"])
		if name == "" {
			name = filename
		}

		entry := &entity.IndexEntry{
			Name:     name,
			Filename: filename,
		}
		entry.FileID, entry.HasID = lookupID(m)

		entries = append(entries, entry)
	}

	return entries, nil
}

func lookupID(m map[string]any) (int64, bool) {
	for _, key := range idKeys {
		if id, ok := idValue(m[key]); ok {
			return id, true
		}
	}

	// Nested spelling: update.curseforge.file-id, as in the canonical
	// descriptor format itself.
	if update, ok := m["update"].(map[string]any); ok {
		if cf, ok := update["curseforge"].(map[string]any); ok {
			if id, ok := idValue(cf["file-id"]); ok {
				return id, true
			}
		}
	}

	return 0, false
}

func idValue(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id > 0 {
			return int64(id), true
		}
	case string:
		if parsed, err := strconv.ParseInt(id, 10, 64); err == nil && parsed > 0 {
			return parsed, true
		}
	}

	return 0, false
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return ""
}
