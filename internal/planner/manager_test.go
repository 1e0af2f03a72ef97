package planner

import (
	"reflect"
	"testing"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
)

type managerFixture struct {
	kv       *kvstore.Store
	clock    *fakeClock
	catalog  *menu.Repository
	selector *Selector
	ledger   *Ledger
	manager  *PlanManager
}

// testCatalog keeps every name unique across groups so reuse resolves
// each name back to the group it came from.
func testCatalog() menu.Catalog {
	return menu.Catalog{
		menu.Breakfast: dishesNamed("Congee", "Bun", "Soy milk"),
		menu.Lunch:     dishesNamed("Noodles", "Fried rice", "Curry"),
		menu.Dinner:    dishesNamed("Fish", "Tofu soup", "Duck"),
		"snack":        dishesNamed("Osmanthus cake"),
	}
}

func newManagerFixture(t *testing.T, kv *kvstore.Store) *managerFixture {
	t.Helper()
	if kv == nil {
		kv = newTestKV()
	}
	f := &managerFixture{kv: kv, clock: newFakeClock("2026-10-16")}
	f.catalog = menu.NewRepository(kv, testCatalog(), logger.NewNop())
	f.selector = NewSelector(f.catalog, kv, newTestRand(11), logger.NewNop())
	f.ledger = NewLedger(kv, f.clock.Now, logger.NewNop())
	f.manager = NewPlanManager(kv, f.catalog, f.selector, f.ledger, logger.NewNop())
	return f
}

func TestSetPlanForMeal(t *testing.T) {
	f := newManagerFixture(t, nil)

	t.Run("ReplacesAndReconciles", func(t *testing.T) {
		if !f.manager.SetPlanForMeal(menu.Lunch, dishesNamed("Noodles", "Curry")) {
			t.Fatal("Expected SetPlanForMeal to succeed")
		}
		if got := menu.Names(f.manager.Plan().Lunch); !reflect.DeepEqual(got, []string{"Noodles", "Curry"}) {
			t.Errorf("Expected lunch [Noodles Curry], got %v", got)
		}
		rec, ok := f.ledger.Lookup("2026-10-16")
		if !ok {
			t.Fatal("Expected today's record to be created")
		}
		if !reflect.DeepEqual(rec.Plan.Lunch, []string{"Noodles", "Curry"}) {
			t.Errorf("Expected recorded lunch [Noodles Curry], got %v", rec.Plan.Lunch)
		}
	})

	t.Run("WholesaleNotMerged", func(t *testing.T) {
		f.manager.SetPlanForMeal(menu.Lunch, dishesNamed("Fried rice"))
		if got := menu.Names(f.manager.Plan().Lunch); !reflect.DeepEqual(got, []string{"Fried rice"}) {
			t.Errorf("Expected lunch [Fried rice], got %v", got)
		}
	})

	t.Run("Persisted", func(t *testing.T) {
		var stored Plan
		if err := kvstore.GetJSON(f.kv, PlanKey, &stored); err != nil {
			t.Fatalf("Expected persisted plan, got %v", err)
		}
		if got := menu.Names(stored.Lunch); !reflect.DeepEqual(got, []string{"Fried rice"}) {
			t.Errorf("Expected stored lunch [Fried rice], got %v", got)
		}
	})

	t.Run("UnknownTypeIsNoop", func(t *testing.T) {
		before := f.manager.Plan()
		if f.manager.SetPlanForMeal("supper", dishesNamed("Fish")) {
			t.Error("Expected SetPlanForMeal to reject an unknown meal type")
		}
		if !reflect.DeepEqual(before, f.manager.Plan()) {
			t.Error("Expected the plan to be unchanged")
		}
	})

	t.Run("UnplannedCatalogTypeIsNoop", func(t *testing.T) {
		if f.manager.SetPlanForMeal("snack", dishesNamed("Osmanthus cake")) {
			t.Error("Expected SetPlanForMeal to reject a meal type the plan does not hold")
		}
	})

	t.Run("PlanOwnsItsDishes", func(t *testing.T) {
		dishes := []menu.Dish{menu.NewDish("Fish", []string{"perch"}, nil, nil)}
		f.manager.SetPlanForMeal(menu.Dinner, dishes)
		dishes[0].Materials[0] = "carp"
		if f.manager.Plan().Dinner[0].Materials[0] != "perch" {
			t.Error("Expected the plan to copy the dishes it is given")
		}
	})
}

func TestEmptyPlanRemovesTodayRecord(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.manager.SetPlanForMeal(menu.Breakfast, dishesNamed("Bun"))
	f.manager.SetPlanForMeal(menu.Dinner, dishesNamed("Duck"))

	for _, mt := range menu.PlannedMeals {
		f.manager.SetPlanForMeal(mt, []menu.Dish{})
	}

	if _, ok := f.ledger.Lookup("2026-10-16"); ok {
		t.Error("Expected today's record to be removed once every meal is empty")
	}
}

func TestClear(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.selector.Pick(menu.Breakfast, 2)
	f.manager.SetPlanForMeal(menu.Lunch, dishesNamed("Curry"))

	f.manager.Clear()

	if !f.manager.Plan().IsEmpty() {
		t.Errorf("Expected an empty plan, got %+v", f.manager.Plan())
	}
	if _, ok := f.kv.Get(PlanKey); ok {
		t.Error("Expected the persisted plan to be removed")
	}
	if _, ok := f.kv.Get(SelectionHistoryKey); ok {
		t.Error("Expected the persisted selection history to be removed")
	}
	if len(f.selector.RecentNames()) != 0 || len(f.selector.HistoryNames()) != 0 {
		t.Error("Expected recency window and selection history to be empty")
	}
	if _, ok := f.ledger.Lookup("2026-10-16"); ok {
		t.Error("Expected today's record to be removed")
	}
}

func TestReuse(t *testing.T) {
	f := newManagerFixture(t, nil)

	// Record a plan two days ago.
	f.clock.t = f.clock.t.AddDate(0, 0, -2)
	f.manager.SetPlanForMeal(menu.Breakfast, dishesNamed("Soy milk", "Bun"))
	f.manager.SetPlanForMeal(menu.Dinner, dishesNamed("Duck"))
	f.clock.t = f.clock.t.AddDate(0, 0, 2)

	f.manager.Clear()

	t.Run("RoundTrip", func(t *testing.T) {
		if !f.manager.Reuse("2026-10-14") {
			t.Fatal("Expected Reuse to find the record")
		}
		rec, _ := f.ledger.Lookup("2026-10-14")
		plan := f.manager.Plan()
		for _, mt := range menu.PlannedMeals {
			if got, want := menu.Names(plan.Meal(mt)), rec.Plan.Meal(mt); !reflect.DeepEqual(got, want) {
				t.Errorf("%s: expected %v, got %v", mt, want, got)
			}
		}
	})

	t.Run("ResolvesFullDishes", func(t *testing.T) {
		kv := newTestKV()
		g := newManagerFixture(t, kv)
		g.catalog.RemoveDish(menu.Breakfast, "Bun")
		g.catalog.AddDish(menu.Breakfast, "Bun", []string{"flour", "pork"}, map[string]string{"fat": "中"}, []string{"steamed"})
		g.manager.SetPlanForMeal(menu.Breakfast, dishesNamed("Bun"))
		g.manager.Clear()
		g.manager.SetPlanForMeal(menu.Breakfast, dishesNamed("Bun"))

		if !g.manager.Reuse("2026-10-16") {
			t.Fatal("Expected Reuse to succeed")
		}
		bun := g.manager.Plan().Breakfast[0]
		if len(bun.Materials) != 2 || bun.Nutrition["fat"] != "中" {
			t.Errorf("Expected the catalog's full dish, got %+v", bun)
		}
	})

	t.Run("DoesNotReconcile", func(t *testing.T) {
		if _, ok := f.ledger.Lookup("2026-10-16"); ok {
			t.Error("Expected Reuse not to create a record for today")
		}
	})

	t.Run("Persisted", func(t *testing.T) {
		var stored Plan
		if err := kvstore.GetJSON(f.kv, PlanKey, &stored); err != nil {
			t.Fatalf("Expected persisted plan, got %v", err)
		}
		if got := menu.Names(stored.Breakfast); !reflect.DeepEqual(got, []string{"Soy milk", "Bun"}) {
			t.Errorf("Expected stored breakfast [Soy milk Bun], got %v", got)
		}
	})

	t.Run("DropsUnresolvableNames", func(t *testing.T) {
		f.catalog.RemoveDish(menu.Breakfast, "Soy milk")
		if !f.manager.Reuse("2026-10-14") {
			t.Fatal("Expected Reuse to succeed")
		}
		if got := menu.Names(f.manager.Plan().Breakfast); !reflect.DeepEqual(got, []string{"Bun"}) {
			t.Errorf("Expected breakfast [Bun], got %v", got)
		}
	})

	t.Run("CrossGroupFirstMatch", func(t *testing.T) {
		// A breakfast record whose name now only exists under lunch.
		f.catalog.RemoveDish(menu.Breakfast, "Bun")
		f.catalog.AddDish(menu.Lunch, "Bun", []string{"lunch flour"}, nil, nil)
		f.manager.Reuse("2026-10-14")

		breakfast := f.manager.Plan().Breakfast
		if len(breakfast) != 1 || breakfast[0].Materials[0] != "lunch flour" {
			t.Errorf("Expected breakfast to resolve to lunch's Bun, got %+v", breakfast)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		before := f.manager.Plan()
		if f.manager.Reuse("1999-01-01") {
			t.Error("Expected Reuse to report false for an unknown date")
		}
		if !reflect.DeepEqual(before, f.manager.Plan()) {
			t.Error("Expected the plan to be unchanged")
		}
	})
}

func TestPlanManagerLoad(t *testing.T) {
	t.Run("Persisted", func(t *testing.T) {
		kv := newTestKV()
		kv.Set(PlanKey, `{"breakfast":[{"name":"Bun","materials":[],"nutrition":{},"tags":[]}],"lunch":[],"dinner":[]}`)
		f := newManagerFixture(t, kv)
		if got := menu.Names(f.manager.Plan().Breakfast); !reflect.DeepEqual(got, []string{"Bun"}) {
			t.Errorf("Expected breakfast [Bun], got %v", got)
		}
	})

	t.Run("PartialObject", func(t *testing.T) {
		kv := newTestKV()
		kv.Set(PlanKey, `{"dinner":[{"name":"Fish"}]}`)
		f := newManagerFixture(t, kv)
		plan := f.manager.Plan()
		if plan.Breakfast == nil || plan.Lunch == nil || len(plan.Dinner) != 1 {
			t.Errorf("Expected missing meals to load as empty, got %+v", plan)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		kv := newTestKV()
		kv.Set(PlanKey, `[1,2,3]`)
		f := newManagerFixture(t, kv)
		if !f.manager.Plan().IsEmpty() {
			t.Errorf("Expected an empty plan, got %+v", f.manager.Plan())
		}
	})
}
