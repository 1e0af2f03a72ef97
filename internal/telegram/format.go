package telegram

import (
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"menu-planner/internal/menu"
	"menu-planner/internal/metrics"
	"menu-planner/internal/planner"
	"menu-planner/internal/shopping"
)

const helpText = `🍱 <b>Menu planner</b>

/pick &lt;type&gt; [count] - draw random dishes
/plan - today's plan
/save - save today's plan to history
/history - recent days
/reuse YYYY-MM-DD - plan today like that day
/clear - clear the plan and recent picks
/add &lt;type&gt; &lt;name&gt;; materials; tags; key=value
/remove &lt;type&gt; &lt;name&gt;
/reset - restore the default menu
/menu [type] - list dishes
/shopping - materials for today's plan
/import &lt;type&gt; &lt;url&gt; - add a dish from a recipe page
/status - health report`

var mealLabels = map[menu.MealType]string{
	menu.Breakfast: "🌅 Breakfast",
	menu.Lunch:     "🍜 Lunch",
	menu.Dinner:    "🌙 Dinner",
}

func escape(s string) string {
	return html.EscapeString(s)
}

func mealLabel(t menu.MealType) string {
	if label, ok := mealLabels[t]; ok {
		return label
	}
	return escape(string(t))
}

func formatDishes(title string, dishes []menu.Dish) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", title))
	if len(dishes) == 0 {
		sb.WriteString("<i>No dishes</i>\n")
	}
	for _, d := range dishes {
		sb.WriteString(fmt.Sprintf("\n• <b>%s</b>\n", escape(d.Name)))
		if len(d.Materials) > 0 {
			sb.WriteString(fmt.Sprintf("  🧺 %s\n", escape(strings.Join(d.Materials, ", "))))
		}
		if len(d.Nutrition) > 0 {
			keys := slices.Sorted(maps.Keys(d.Nutrition))
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s %s", k, d.Nutrition[k]))
			}
			sb.WriteString(fmt.Sprintf("  📊 %s\n", escape(strings.Join(parts, " · "))))
		}
		if len(d.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("  🏷 %s\n", escape(strings.Join(d.Tags, ", "))))
		}
	}
	return sb.String()
}

func formatPlan(date string, plan planner.Plan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>Plan for %s</b>\n", date))
	if plan.IsEmpty() {
		sb.WriteString("\n<i>Nothing planned yet. Try /pick lunch</i>")
		return sb.String()
	}
	for _, t := range menu.PlannedMeals {
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>: ", mealLabel(t)))
		names := menu.Names(plan.Meal(t))
		if len(names) == 0 {
			sb.WriteString("-")
			continue
		}
		sb.WriteString(escape(strings.Join(names, ", ")))
	}
	return sb.String()
}

func formatHistory(records []planner.DayRecord, limit int) string {
	if len(records) == 0 {
		return "🗓 <i>No saved days yet</i>"
	}
	var sb strings.Builder
	sb.WriteString("🗓 <b>History</b>\n")
	for i, rec := range records {
		if i == limit {
			sb.WriteString(fmt.Sprintf("\n<i>… and %d more</i>", len(records)-limit))
			break
		}
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", rec.Date))
		for _, t := range menu.PlannedMeals {
			if names := rec.Plan.Meal(t); len(names) > 0 {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", mealLabel(t), escape(strings.Join(names, ", "))))
			}
		}
	}
	return sb.String()
}

func formatMenu(catalog menu.Catalog) string {
	var sb strings.Builder
	sb.WriteString("📋 <b>Menu</b>\n")
	for _, t := range catalog.Types() {
		sb.WriteString(fmt.Sprintf("\n%s (%d): %s", mealLabel(t), len(catalog[t]), escape(strings.Join(menu.Names(catalog[t]), ", "))))
	}
	return sb.String()
}

func formatShopping(items []shopping.Item) string {
	if len(items) == 0 {
		return "🛒 <i>Nothing to buy, the plan is empty</i>"
	}
	var sb strings.Builder
	sb.WriteString("🛒 <b>Shopping List</b>\n\n")
	for _, item := range items {
		if item.Count > 1 {
			sb.WriteString(fmt.Sprintf("• %s ×%d\n", escape(item.Material), item.Count))
			continue
		}
		sb.WriteString(fmt.Sprintf("• %s\n", escape(item.Material)))
	}
	return sb.String()
}

func formatStatus(backend string, dishes, days int, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Health Report</b>\n\n")
	sb.WriteString(fmt.Sprintf("🗄 Store: %s\n", escape(backend)))
	sb.WriteString(fmt.Sprintf("• Dishes: %d\n", dishes))
	sb.WriteString(fmt.Sprintf("• Saved days: %d\n", days))
	sb.WriteString("\n🧠 <b>System</b>\n")
	sb.WriteString(fmt.Sprintf("• RAM: %s (Alloc) / %s (Sys)\n", health.Alloc, health.Sys))
	sb.WriteString(fmt.Sprintf("• GC runs: %d\n", health.NumGC))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
