package menu

import (
	"testing"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
)

func newTestKV() *kvstore.Store {
	return kvstore.New(kvstore.NewMemoryBackend(), logger.NewNop(), 0)
}

func testSeed() Catalog {
	return Catalog{
		Breakfast: {NewDish("Congee", []string{"rice"}, nil, nil), NewDish("Bun", []string{"flour"}, nil, nil)},
		Lunch:     {NewDish("Noodles", nil, nil, nil)},
		Dinner:    {},
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("EmptyStoreUsesSeed", func(t *testing.T) {
		r := NewRepository(newTestKV(), testSeed(), logger.NewNop())
		if len(r.Group(Breakfast)) != 2 {
			t.Errorf("Expected 2 breakfast dishes from seed, got %d", len(r.Group(Breakfast)))
		}
	})

	t.Run("PersistedCatalogWins", func(t *testing.T) {
		kv := newTestKV()
		kv.Set(CatalogKey, `{"breakfast":[{"name":"Toast","materials":[],"nutrition":{},"tags":[]}]}`)

		r := NewRepository(kv, testSeed(), logger.NewNop())
		group := r.Group(Breakfast)
		if len(group) != 1 || group[0].Name != "Toast" {
			t.Errorf("Expected persisted breakfast [Toast], got %v", Names(group))
		}
		if r.HasType(Lunch) {
			t.Error("Expected lunch to be absent from the persisted catalog")
		}
	})

	t.Run("MalformedFallsBackToSeed", func(t *testing.T) {
		kv := newTestKV()
		kv.Set(CatalogKey, `{"lunch":[]}`)

		r := NewRepository(kv, testSeed(), logger.NewNop())
		if len(r.Group(Breakfast)) != 2 {
			t.Errorf("Expected seed breakfast, got %v", Names(r.Group(Breakfast)))
		}
	})
}

func TestRepositoryEdits(t *testing.T) {
	kv := newTestKV()
	r := NewRepository(kv, testSeed(), logger.NewNop())

	t.Run("AddDish", func(t *testing.T) {
		if !r.AddDish(Lunch, "Fried rice", []string{"rice", "egg"}, map[string]string{"calorie": "高"}, []string{"quick"}) {
			t.Fatal("Expected AddDish to succeed")
		}
		if got := Names(r.Group(Lunch)); len(got) != 2 || got[1] != "Fried rice" {
			t.Errorf("Expected Fried rice appended to lunch, got %v", got)
		}
		reloaded := NewRepository(kv, testSeed(), logger.NewNop())
		if !reloaded.Catalog().Contains(Lunch, "Fried rice") {
			t.Error("Expected the added dish to be persisted")
		}
	})

	t.Run("AddDuplicateIsIgnored", func(t *testing.T) {
		if r.AddDish(Lunch, "Fried rice", nil, nil, nil) {
			t.Error("Expected duplicate AddDish to report false")
		}
		if len(r.Group(Lunch)) != 2 {
			t.Errorf("Expected lunch to still have 2 dishes, got %d", len(r.Group(Lunch)))
		}
	})

	t.Run("SameNameInOtherGroupIsAllowed", func(t *testing.T) {
		if !r.AddDish(Dinner, "Fried rice", nil, nil, nil) {
			t.Error("Expected a name to be reusable across groups")
		}
	})

	t.Run("AddCreatesGroup", func(t *testing.T) {
		if !r.AddDish("snack", "Osmanthus cake", nil, nil, nil) {
			t.Fatal("Expected AddDish to create the snack group")
		}
		if !r.HasType("snack") {
			t.Error("Expected snack to be a catalog key")
		}
	})

	t.Run("AddEmptyNameIsIgnored", func(t *testing.T) {
		if r.AddDish(Lunch, "", nil, nil, nil) {
			t.Error("Expected an empty name to be rejected")
		}
	})

	t.Run("RemoveDish", func(t *testing.T) {
		r.RemoveDish(Lunch, "Fried rice")
		if r.Catalog().Contains(Lunch, "Fried rice") {
			t.Error("Expected Fried rice to be removed from lunch")
		}
		if !r.Catalog().Contains(Dinner, "Fried rice") {
			t.Error("Expected dinner's Fried rice to remain")
		}
	})

	t.Run("RemoveFromUnknownGroup", func(t *testing.T) {
		before := r.Catalog()
		r.RemoveDish("brunch", "Fried rice")
		if r.HasType("brunch") {
			t.Error("Expected removal not to create a group")
		}
		if len(r.Catalog()) != len(before) {
			t.Errorf("Expected %d groups, got %d", len(before), len(r.Catalog()))
		}
	})

	t.Run("ResetToDefault", func(t *testing.T) {
		r.ResetToDefault()
		if r.HasType("snack") {
			t.Error("Expected reset to drop the snack group")
		}
		if got := Names(r.Group(Lunch)); len(got) != 1 || got[0] != "Noodles" {
			t.Errorf("Expected seed lunch [Noodles], got %v", got)
		}

		reloaded := NewRepository(kv, Catalog{Breakfast: {}}, logger.NewNop())
		if len(reloaded.Group(Breakfast)) != 2 {
			t.Error("Expected the reset catalog to be persisted")
		}
	})

	t.Run("ResetDoesNotAliasSeed", func(t *testing.T) {
		r.AddDish(Breakfast, "Soy milk", nil, nil, nil)
		r.ResetToDefault()
		if len(r.Group(Breakfast)) != 2 {
			t.Errorf("Expected seed breakfast to be untouched by earlier edits, got %v", Names(r.Group(Breakfast)))
		}
	})
}

func TestRepositoryGroupIsACopy(t *testing.T) {
	r := NewRepository(newTestKV(), testSeed(), logger.NewNop())
	group := r.Group(Breakfast)
	group[0] = NewDish("Changed", nil, nil, nil)
	if r.Group(Breakfast)[0].Name != "Congee" {
		t.Error("Expected Group to return a copy of the slice")
	}
}
