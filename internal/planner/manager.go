package planner

import (
	"errors"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
)

// PlanKey is where the current day's plan is persisted.
const PlanKey = "today-plan"

// CatalogLookup is the part of the catalog the plan manager needs.
type CatalogLookup interface {
	HasType(t menu.MealType) bool
	FindByName(name string) (menu.Dish, bool)
}

// PlanManager owns the live daily plan.
type PlanManager struct {
	kv       kvstore.KV
	catalog  CatalogLookup
	selector *Selector
	ledger   *Ledger
	plan     Plan
	log      *logger.Logger
}

// NewPlanManager loads the persisted plan, starting empty when it is missing
// or malformed.
func NewPlanManager(kv kvstore.KV, catalog CatalogLookup, selector *Selector, ledger *Ledger, log *logger.Logger) *PlanManager {
	m := &PlanManager{
		kv:       kv,
		catalog:  catalog,
		selector: selector,
		ledger:   ledger,
		log:      log.With("component", "plan"),
	}

	var stored Plan
	if err := kvstore.GetJSON(kv, PlanKey, &stored); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			m.log.Warn("Persisted plan is malformed, starting empty", "error", err)
		}
		stored = EmptyPlan()
	}
	m.plan = stored.Clone()
	return m
}

// Plan returns a copy of the current plan.
func (m *PlanManager) Plan() Plan {
	return m.plan.Clone()
}

// SetPlanForMeal replaces the dishes planned for t, persists the plan and
// reconciles today's ledger record. It does nothing unless t is a catalog
// key and one of the planned meals. A nil slice clears the meal.
func (m *PlanManager) SetPlanForMeal(t menu.MealType, dishes []menu.Dish) bool {
	if !m.catalog.HasType(t) {
		m.log.Warn("Ignoring plan for unknown meal type", "type", t)
		return false
	}
	if !m.plan.setMeal(t, dishes) {
		m.log.Warn("Meal type is not part of the daily plan", "type", t)
		return false
	}
	m.save()
	m.ledger.ReconcileToday(m.plan)
	return true
}

// SaveToHistory reconciles today's ledger record with the current plan.
func (m *PlanManager) SaveToHistory() {
	m.ledger.ReconcileToday(m.plan)
}

// Clear empties the plan and the pick history, drops their persisted keys and
// reconciles, which removes today's ledger record.
func (m *PlanManager) Clear() {
	m.plan = EmptyPlan()
	m.save()
	m.kv.Remove(PlanKey)
	m.selector.Reset()
	m.ledger.ReconcileToday(m.plan)
}

// Reuse replaces the plan with the one recorded for dateKey. Each stored name
// resolves to the first catalog dish with that name in any group; names the
// catalog no longer has are dropped. The ledger is not reconciled.
func (m *PlanManager) Reuse(dateKey string) bool {
	record, ok := m.ledger.Lookup(dateKey)
	if !ok {
		return false
	}

	next := EmptyPlan()
	for _, t := range menu.PlannedMeals {
		var dishes []menu.Dish
		for _, name := range record.Plan.Meal(t) {
			d, found := m.catalog.FindByName(name)
			if !found {
				m.log.Debug("Dropping dish missing from catalog", "date", dateKey, "name", name)
				continue
			}
			dishes = append(dishes, d)
		}
		next.setMeal(t, dishes)
	}

	m.plan = next
	m.save()
	return true
}

func (m *PlanManager) save() {
	if err := kvstore.SetJSON(m.kv, PlanKey, m.plan); err != nil {
		m.log.Error("Failed to persist plan", "error", err)
	}
}
