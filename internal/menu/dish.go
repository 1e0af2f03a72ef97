package menu

import (
	"maps"
	"slices"
)

// MealType groups dishes in the catalog. The three planned meals are
// predefined; any other non-empty string is a valid extra group.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// PlannedMeals are the meal types a daily plan holds, in display order.
var PlannedMeals = []MealType{Breakfast, Lunch, Dinner}

// IsPlanned reports whether t is one of PlannedMeals.
func (t MealType) IsPlanned() bool {
	return slices.Contains(PlannedMeals, t)
}

// Dish is a single catalog entry.
type Dish struct {
	Name      string            `json:"name" yaml:"name"`
	Materials []string          `json:"materials" yaml:"materials"`
	Nutrition map[string]string `json:"nutrition" yaml:"nutrition"`
	Tags      []string          `json:"tags" yaml:"tags"`
}

// NewDish builds a Dish with non-nil collections so it encodes as [] and {}.
func NewDish(name string, materials []string, nutrition map[string]string, tags []string) Dish {
	d := Dish{
		Name:      name,
		Materials: slices.Clone(materials),
		Nutrition: maps.Clone(nutrition),
		Tags:      slices.Clone(tags),
	}
	if d.Materials == nil {
		d.Materials = []string{}
	}
	if d.Nutrition == nil {
		d.Nutrition = map[string]string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

// Clone returns a deep copy of d.
func (d Dish) Clone() Dish {
	return Dish{
		Name:      d.Name,
		Materials: slices.Clone(d.Materials),
		Nutrition: maps.Clone(d.Nutrition),
		Tags:      slices.Clone(d.Tags),
	}
}

// Names projects dishes to their names, keeping order.
func Names(dishes []Dish) []string {
	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.Name)
	}
	return names
}
