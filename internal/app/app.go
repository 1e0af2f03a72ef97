package app

import (
	"math/rand/v2"
	"time"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
	"menu-planner/internal/planner"
	"menu-planner/internal/shopping"
)

// App is the menu store for one process. It wires the catalog, the dish
// selector, the daily plan and the history ledger to a single KV store.
type App struct {
	kv       kvstore.KV
	catalog  *menu.Repository
	selector *planner.Selector
	ledger   *planner.Ledger
	plans    *planner.PlanManager
	log      *logger.Logger
}

type options struct {
	now func() time.Time
	rng *rand.Rand
}

// Option customizes NewApp.
type Option func(*options)

// WithClock sets the time source used to stamp ledger records.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand sets the random source used by Pick.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// NewApp loads every piece of persisted state from kv. seed is the catalog
// used when nothing is stored yet and by ResetMenu.
func NewApp(kv kvstore.KV, seed menu.Catalog, log *logger.Logger, opts ...Option) *App {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	a := &App{kv: kv, log: log}
	a.catalog = menu.NewRepository(kv, seed, log)
	a.selector = planner.NewSelector(a.catalog, kv, o.rng, log)
	a.ledger = planner.NewLedger(kv, o.now, log)
	a.plans = planner.NewPlanManager(kv, a.catalog, a.selector, a.ledger, log)
	return a
}

// Pick draws up to count random dishes of meal type t.
func (a *App) Pick(t menu.MealType, count int) []menu.Dish {
	return a.selector.Pick(t, count)
}

// AddFoodToPlan replaces the dishes planned for t.
func (a *App) AddFoodToPlan(t menu.MealType, dishes []menu.Dish) bool {
	return a.plans.SetPlanForMeal(t, dishes)
}

// SaveDailyPlanToHistory writes today's plan into the ledger.
func (a *App) SaveDailyPlanToHistory() {
	a.plans.SaveToHistory()
}

// ReuseDailyPlan makes the plan recorded on dateKey (YYYY-MM-DD) today's plan.
func (a *App) ReuseDailyPlan(dateKey string) bool {
	return a.plans.Reuse(dateKey)
}

// ClearHistory empties today's plan and forgets every recent pick.
func (a *App) ClearHistory() {
	a.plans.Clear()
}

func (a *App) AddFoodItem(t menu.MealType, name string, materials []string, nutrition map[string]string, tags []string) bool {
	return a.catalog.AddDish(t, name, materials, nutrition, tags)
}

func (a *App) RemoveFoodItem(t menu.MealType, name string) {
	a.catalog.RemoveDish(t, name)
}

// ResetMenu restores the seed catalog.
func (a *App) ResetMenu() {
	a.catalog.ResetToDefault()
}

func (a *App) TodayPlan() planner.Plan {
	return a.plans.Plan()
}

// History returns the ledger, most recent day first.
func (a *App) History() []planner.DayRecord {
	return a.ledger.Records()
}

func (a *App) Catalog() menu.Catalog {
	return a.catalog.Catalog()
}

// Group returns the dishes of meal type t.
func (a *App) Group(t menu.MealType) []menu.Dish {
	return a.catalog.Group(t)
}

func (a *App) MealTypes() []menu.MealType {
	return a.catalog.Types()
}

// RecentNames returns the recency window, oldest first.
func (a *App) RecentNames() []string {
	return a.selector.RecentNames()
}

// SelectionHistory returns every distinct name ever picked since the last clear.
func (a *App) SelectionHistory() []string {
	return a.selector.HistoryNames()
}

// Today returns today's ledger key.
func (a *App) Today() string {
	return a.ledger.Today()
}

// ShoppingList aggregates the materials of today's plan.
func (a *App) ShoppingList() []shopping.Item {
	return shopping.FromPlan(a.plans.Plan())
}
