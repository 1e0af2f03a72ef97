package menu

import (
	"slices"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
)

// CatalogKey is where the whole catalog is persisted.
const CatalogKey = "today-food-menu"

// Repository owns the live catalog and persists every edit through a KV store.
type Repository struct {
	kv      kvstore.KV
	seed    Catalog
	catalog Catalog
	log     *logger.Logger
}

// NewRepository loads the persisted catalog, falling back to seed when the
// stored value is missing or malformed.
func NewRepository(kv kvstore.KV, seed Catalog, log *logger.Logger) *Repository {
	r := &Repository{
		kv:   kv,
		seed: seed.Clone(),
		log:  log.With("component", "catalog"),
	}
	r.catalog = r.load()
	return r
}

func (r *Repository) load() Catalog {
	raw, ok := r.kv.Get(CatalogKey)
	if !ok {
		return r.seed.Clone()
	}
	c, ok := DecodeCatalog(raw)
	if !ok {
		r.log.Warn("Persisted catalog is malformed, using default menu")
		return r.seed.Clone()
	}
	return c
}

func (r *Repository) save() {
	if err := kvstore.SetJSON(r.kv, CatalogKey, r.catalog); err != nil {
		r.log.Error("Failed to persist catalog", "error", err)
	}
}

// AddDish appends a dish to the group for t, creating the group when needed.
// A duplicate name within the group is logged and ignored.
func (r *Repository) AddDish(t MealType, name string, materials []string, nutrition map[string]string, tags []string) bool {
	if t == "" || name == "" {
		r.log.Warn("Ignoring dish with empty meal type or name", "type", t, "name", name)
		return false
	}
	if r.catalog.Contains(t, name) {
		r.log.Warn("Dish already exists in menu", "type", t, "name", name)
		return false
	}
	r.catalog[t] = append(r.catalog[t], NewDish(name, materials, nutrition, tags))
	r.save()
	return true
}

// RemoveDish drops every dish named name from the group for t.
// An unknown group is left alone and nothing is persisted.
func (r *Repository) RemoveDish(t MealType, name string) {
	group, ok := r.catalog[t]
	if !ok {
		return
	}
	r.catalog[t] = slices.DeleteFunc(group, func(d Dish) bool { return d.Name == name })
	r.save()
}

// ResetToDefault replaces the catalog with the seed and persists it.
func (r *Repository) ResetToDefault() {
	r.catalog = r.seed.Clone()
	r.save()
}

// Group returns the dishes for t. The slice is a copy; the dishes share
// their collections with the catalog and must not be modified.
func (r *Repository) Group(t MealType) []Dish {
	return slices.Clone(r.catalog[t])
}

// HasType reports whether t is a catalog key.
func (r *Repository) HasType(t MealType) bool {
	return r.catalog.Has(t)
}

// FindByName scans every group, in Types order, for the first dish named name.
func (r *Repository) FindByName(name string) (Dish, bool) {
	return r.catalog.Find(name)
}

// Types lists the catalog's meal types.
func (r *Repository) Types() []MealType {
	return r.catalog.Types()
}

// Catalog returns a deep copy of the live catalog.
func (r *Repository) Catalog() Catalog {
	return r.catalog.Clone()
}
