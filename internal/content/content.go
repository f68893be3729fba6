package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/castellan/skirmish/internal/config"
	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/magic"
	"github.com/castellan/skirmish/internal/game/npc"
)

// Bundle holds the fully constructed content registries a battle needs.
type Bundle struct {
	Actions *action.Catalog
	Spells  *magic.Registry
	Enemies *npc.Registry
}

// Load assembles the bundle. Each content type loads from its configured
// directory, or from the embedded defaults when the directory is empty.
// Cross-references (cast actions naming spells, script spells naming
// scripts) are resolved here, so a bundle that loads is ready to fight with.
//
// Postcondition: Returns a bundle with all three registries built, or an
// error naming the first offending file or definition.
func Load(cfg config.ContentConfig) (*Bundle, error) {
	descriptors, err := loadSpellDescriptors(cfg.SpellsDir)
	if err != nil {
		return nil, err
	}
	scripts, err := Scripts()
	if err != nil {
		return nil, err
	}
	spells, err := magic.NewRegistry(descriptors, magic.WithScripts(scripts))
	if err != nil {
		return nil, fmt.Errorf("building spell registry: %w", err)
	}

	lists, err := loadActionLists(cfg.ActionsDir)
	if err != nil {
		return nil, err
	}
	catalog, err := action.NewCatalog(lists, spells)
	if err != nil {
		return nil, fmt.Errorf("building action catalog: %w", err)
	}

	templates, err := loadEnemyTemplates(cfg.EnemiesDir)
	if err != nil {
		return nil, err
	}
	enemies, err := npc.NewRegistry(templates)
	if err != nil {
		return nil, fmt.Errorf("building enemy registry: %w", err)
	}

	return &Bundle{Actions: catalog, Spells: spells, Enemies: enemies}, nil
}

// Scripts returns the embedded Lua spell scripts keyed by script name.
func Scripts() (map[string]string, error) {
	entries, err := fs.ReadDir(defaultsFS, "defaults/scripts")
	if err != nil {
		return nil, fmt.Errorf("reading embedded scripts: %w", err)
	}
	scripts := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".lua") {
			continue
		}
		data, err := defaultsFS.ReadFile("defaults/scripts/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded script %s: %w", name, err)
		}
		scripts[strings.TrimSuffix(name, ".lua")] = string(data)
	}
	return scripts, nil
}

func loadSpellDescriptors(dir string) ([]magic.Descriptor, error) {
	if dir == "" {
		data, err := defaultsFS.ReadFile("defaults/spells.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded spells: %w", err)
		}
		return magic.LoadDescriptorsFromBytes(data)
	}

	var out []magic.Descriptor
	err := eachYAML(dir, func(name string, data []byte) error {
		ds, err := magic.LoadDescriptorsFromBytes(data)
		if err != nil {
			return fmt.Errorf("loading spells from %s: %w", name, err)
		}
		out = append(out, ds...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadActionLists(dir string) (map[string][]action.Definition, error) {
	if dir == "" {
		data, err := defaultsFS.ReadFile("defaults/actions.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded actions: %w", err)
		}
		return action.LoadListsFromBytes(data)
	}

	lists := make(map[string][]action.Definition)
	err := eachYAML(dir, func(name string, data []byte) error {
		parsed, err := action.LoadListsFromBytes(data)
		if err != nil {
			return fmt.Errorf("loading actions from %s: %w", name, err)
		}
		for class, defs := range parsed {
			lists[class] = append(lists[class], defs...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func loadEnemyTemplates(dir string) ([]npc.Template, error) {
	if dir == "" {
		data, err := defaultsFS.ReadFile("defaults/enemies.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded enemies: %w", err)
		}
		return npc.LoadTemplatesFromBytes(data)
	}

	var out []npc.Template
	err := eachYAML(dir, func(name string, data []byte) error {
		ts, err := npc.LoadTemplatesFromBytes(data)
		if err != nil {
			return fmt.Errorf("loading enemies from %s: %w", name, err)
		}
		out = append(out, ts...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// eachYAML invokes fn for every .yaml or .yml file in dir.
func eachYAML(dir string, fn func(name string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	found := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading content file %s: %w", name, err)
		}
		if err := fn(name, data); err != nil {
			return err
		}
		found = true
	}

	if !found {
		return fmt.Errorf("no content files found in %s", dir)
	}
	return nil
}
