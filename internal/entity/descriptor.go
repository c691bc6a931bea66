package entity

// Descriptor is the canonical per-mod record, one TOML file per mod under
// the metadata directory. Filename is the identity key: at most one
// descriptor exists per filename, and the reconciler never writes them.
type Descriptor struct {
	Name     string  `toml:"name"`
	Filename string  `toml:"filename"`
	Update   *Update `toml:"update,omitempty"`
}

// Update holds the optional source identifiers used to resolve a download
// location. When both are present the CurseForge file-id wins.
type Update struct {
	CurseForge *CurseForge `toml:"curseforge,omitempty"`
	Modrinth   *Modrinth   `toml:"modrinth,omitempty"`
}

type CurseForge struct {
	FileID int64 `toml:"file-id"`
}

type Modrinth struct {
	URL string `toml:"url"`
}

// DisplayName returns the human-facing name, falling back to the filename.
func (d *Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}

	return d.Filename
}
