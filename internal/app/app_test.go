package app

import (
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
	"menu-planner/internal/planner"
)

func fixedClock(date string) func() time.Time {
	t, _ := time.ParseInLocation(planner.DateLayout, date, time.Local)
	t = t.Add(12 * time.Hour)
	return func() time.Time { return t }
}

func testSeed() menu.Catalog {
	return menu.Catalog{
		menu.Breakfast: {menu.NewDish("A", []string{"rice"}, nil, nil), menu.NewDish("B", nil, nil, nil), menu.NewDish("C", nil, nil, nil)},
		menu.Lunch:     {menu.NewDish("X", []string{"noodles"}, nil, nil), menu.NewDish("Y", []string{"rice"}, nil, nil)},
		menu.Dinner:    {menu.NewDish("Z", nil, nil, nil)},
	}
}

func newTestApp(t *testing.T, kv kvstore.KV) *App {
	t.Helper()
	return NewApp(kv, testSeed(), logger.NewNop(),
		WithClock(fixedClock("2026-10-16")),
		WithRand(rand.New(rand.NewPCG(7, 9))),
	)
}

func newMemoryKV() *kvstore.Store {
	return kvstore.New(kvstore.NewMemoryBackend(), logger.NewNop(), 0)
}

func TestPickFromSmallGroup(t *testing.T) {
	a := newTestApp(t, newMemoryKV())

	first := a.Pick(menu.Breakfast, 2)
	second := a.Pick(menu.Breakfast, 2)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 dishes per call, got %d and %d", len(first), len(second))
	}
	if first[0].Name == first[1].Name || second[0].Name == second[1].Name {
		t.Errorf("Expected distinct dishes, got %v and %v", menu.Names(first), menu.Names(second))
	}
	if got := len(a.RecentNames()); got != 4 {
		t.Errorf("Expected 4 recent names, got %d", got)
	}
	if got := len(a.SelectionHistory()); got != 3 {
		t.Errorf("Expected all 3 breakfast names in selection history, got %v", a.SelectionHistory())
	}
}

func TestClearThenReuseToday(t *testing.T) {
	a := newTestApp(t, newMemoryKV())
	lunch := a.Group(menu.Lunch)

	if !a.AddFoodToPlan(menu.Lunch, lunch) {
		t.Fatal("Expected AddFoodToPlan to succeed")
	}
	a.SaveDailyPlanToHistory()
	if len(a.History()) != 1 {
		t.Fatalf("Expected 1 ledger record, got %d", len(a.History()))
	}

	a.ClearHistory()

	if a.ReuseDailyPlan(a.Today()) {
		t.Error("Expected reuse of today to fail after clearing")
	}
	if !a.TodayPlan().IsEmpty() {
		t.Errorf("Expected an empty plan, got %+v", a.TodayPlan())
	}
}

func TestCatalogEdits(t *testing.T) {
	a := newTestApp(t, newMemoryKV())

	if !a.AddFoodItem("snack", "Mooncake", []string{"lotus paste"}, map[string]string{"fat": "高"}, []string{"sweet"}) {
		t.Fatal("Expected a new meal type to be created")
	}
	if a.AddFoodItem(menu.Lunch, "X", nil, nil, nil) {
		t.Error("Expected a duplicate name to be rejected")
	}
	if want := []menu.MealType{menu.Breakfast, menu.Lunch, menu.Dinner, "snack"}; !reflect.DeepEqual(a.MealTypes(), want) {
		t.Errorf("Expected %v, got %v", want, a.MealTypes())
	}

	a.RemoveFoodItem(menu.Breakfast, "A")
	if got := menu.Names(a.Group(menu.Breakfast)); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Expected [B C], got %v", got)
	}

	a.ResetMenu()
	if !reflect.DeepEqual(a.Catalog(), testSeed()) {
		t.Errorf("Expected the seed catalog after reset, got %+v", a.Catalog())
	}
}

func TestShoppingList(t *testing.T) {
	a := newTestApp(t, newMemoryKV())
	a.AddFoodToPlan(menu.Breakfast, a.Group(menu.Breakfast)[:1])
	a.AddFoodToPlan(menu.Lunch, a.Group(menu.Lunch))

	items := a.ShoppingList()
	if len(items) != 2 || items[0].Material != "rice" || items[0].Count != 2 {
		t.Errorf("Expected rice x2 then noodles, got %+v", items)
	}
}

func TestRestartKeepsState(t *testing.T) {
	backend, err := kvstore.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file backend: %v", err)
	}
	kv := kvstore.New(backend, logger.NewNop(), 0)

	a := newTestApp(t, kv)
	a.AddFoodItem(menu.Dinner, "Duck", []string{"duck"}, nil, nil)
	picked := a.Pick(menu.Dinner, 1)
	a.AddFoodToPlan(menu.Dinner, picked)

	b := newTestApp(t, kv)

	if !reflect.DeepEqual(a.Catalog(), b.Catalog()) {
		t.Errorf("Expected catalog %+v after restart, got %+v", a.Catalog(), b.Catalog())
	}
	if !reflect.DeepEqual(a.TodayPlan(), b.TodayPlan()) {
		t.Errorf("Expected plan %+v after restart, got %+v", a.TodayPlan(), b.TodayPlan())
	}
	if !reflect.DeepEqual(a.History(), b.History()) {
		t.Errorf("Expected ledger %+v after restart, got %+v", a.History(), b.History())
	}
	if !reflect.DeepEqual(a.SelectionHistory(), b.SelectionHistory()) {
		t.Errorf("Expected selection history %v after restart, got %v", a.SelectionHistory(), b.SelectionHistory())
	}
	if len(b.RecentNames()) != 0 {
		t.Errorf("Expected the recency window to start empty, got %v", b.RecentNames())
	}
}

func TestIsolatedInstances(t *testing.T) {
	a := newTestApp(t, newMemoryKV())
	b := newTestApp(t, newMemoryKV())

	a.RemoveFoodItem(menu.Lunch, "X")
	if len(b.Group(menu.Lunch)) != 2 {
		t.Error("Expected separate stores not to share state")
	}
}
