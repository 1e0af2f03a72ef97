package menu

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_menu.yaml
var defaultMenuYAML []byte

var loadDefault = sync.OnceValues(func() (Catalog, error) {
	return ParseSeed(defaultMenuYAML)
})

// DefaultCatalog returns a fresh copy of the built-in seed catalog.
func DefaultCatalog() Catalog {
	c, err := loadDefault()
	if err != nil {
		// The embedded file is checked by tests; reaching this is a build defect.
		panic(fmt.Sprintf("menu: invalid embedded seed: %v", err))
	}
	return c.Clone()
}

// LoadSeedFile reads a YAML seed catalog from disk.
func LoadSeedFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	c, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return c, nil
}

// ParseSeed decodes a YAML catalog and checks it the same way a persisted
// catalog is checked, plus name rules.
func ParseSeed(data []byte) (Catalog, error) {
	var raw map[MealType][]Dish
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	if _, ok := raw[Breakfast]; !ok {
		return nil, fmt.Errorf("seed has no %s group", Breakfast)
	}

	c := make(Catalog, len(raw))
	for t, dishes := range raw {
		if t == "" {
			return nil, fmt.Errorf("seed has an empty meal type")
		}
		seen := make(map[string]struct{}, len(dishes))
		group := make([]Dish, 0, len(dishes))
		for _, d := range dishes {
			if d.Name == "" {
				return nil, fmt.Errorf("seed %s group has a dish without a name", t)
			}
			if _, dup := seen[d.Name]; dup {
				return nil, fmt.Errorf("seed %s group lists %q twice", t, d.Name)
			}
			seen[d.Name] = struct{}{}
			group = append(group, NewDish(d.Name, d.Materials, d.Nutrition, d.Tags))
		}
		c[t] = group
	}
	return c, nil
}
