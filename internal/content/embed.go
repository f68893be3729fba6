// Package content provides the embedded default game content and the loaders
// that assemble the action catalog, spell registry, and enemy registry from
// it or from override directories.
package content

import "embed"

// defaultsFS embeds the default content shipped with the binary.
//
//go:embed defaults
var defaultsFS embed.FS
