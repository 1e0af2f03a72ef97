package planner

import (
	"slices"

	"menu-planner/internal/menu"
)

// Plan is the menu committed for the current day.
type Plan struct {
	Breakfast []menu.Dish `json:"breakfast"`
	Lunch     []menu.Dish `json:"lunch"`
	Dinner    []menu.Dish `json:"dinner"`
}

// EmptyPlan returns a plan whose meals encode as empty lists.
func EmptyPlan() Plan {
	return Plan{Breakfast: []menu.Dish{}, Lunch: []menu.Dish{}, Dinner: []menu.Dish{}}
}

// Meal returns the dishes planned for t; nil for an unplanned meal type.
func (p Plan) Meal(t menu.MealType) []menu.Dish {
	switch t {
	case menu.Breakfast:
		return p.Breakfast
	case menu.Lunch:
		return p.Lunch
	case menu.Dinner:
		return p.Dinner
	default:
		return nil
	}
}

// setMeal replaces the dishes for t and reports whether t is a planned meal.
func (p *Plan) setMeal(t menu.MealType, dishes []menu.Dish) bool {
	owned := cloneDishes(dishes)
	switch t {
	case menu.Breakfast:
		p.Breakfast = owned
	case menu.Lunch:
		p.Lunch = owned
	case menu.Dinner:
		p.Dinner = owned
	default:
		return false
	}
	return true
}

// IsEmpty reports whether no meal has any dish.
func (p Plan) IsEmpty() bool {
	return len(p.Breakfast) == 0 && len(p.Lunch) == 0 && len(p.Dinner) == 0
}

// Names projects the plan to dish names.
func (p Plan) Names() PlanNames {
	return PlanNames{
		Breakfast: menu.Names(p.Breakfast),
		Lunch:     menu.Names(p.Lunch),
		Dinner:    menu.Names(p.Dinner),
	}
}

// Clone returns a deep copy with non-nil meals.
func (p Plan) Clone() Plan {
	return Plan{
		Breakfast: cloneDishes(p.Breakfast),
		Lunch:     cloneDishes(p.Lunch),
		Dinner:    cloneDishes(p.Dinner),
	}
}

// PlanNames is a plan reduced to dish names, the form kept in the ledger.
type PlanNames struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Dinner    []string `json:"dinner"`
}

// Meal returns the names stored for t.
func (n PlanNames) Meal(t menu.MealType) []string {
	switch t {
	case menu.Breakfast:
		return n.Breakfast
	case menu.Lunch:
		return n.Lunch
	case menu.Dinner:
		return n.Dinner
	default:
		return nil
	}
}

func (n PlanNames) clone() PlanNames {
	return PlanNames{
		Breakfast: nonNil(slices.Clone(n.Breakfast)),
		Lunch:     nonNil(slices.Clone(n.Lunch)),
		Dinner:    nonNil(slices.Clone(n.Dinner)),
	}
}

func cloneDishes(dishes []menu.Dish) []menu.Dish {
	out := make([]menu.Dish, len(dishes))
	for i, d := range dishes {
		out[i] = d.Clone()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
