package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/clipper"
	"menu-planner/internal/config"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	application, closeStore, err := app.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open menu store", "error", err)
	}
	defer closeStore()

	if err := run(application, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		closeStore()
		log.Sync()
		os.Exit(1)
	}
}

func run(a *app.App, cmd string, args []string) error {
	switch cmd {
	case "pick":
		return runPick(a, args)
	case "plan":
		printPlan(a)
	case "save":
		a.SaveDailyPlanToHistory()
		fmt.Printf("Saved plan for %s.\n", a.Today())
	case "history":
		printHistory(a)
	case "reuse":
		if len(args) != 1 {
			return fmt.Errorf("reuse needs a date (YYYY-MM-DD)")
		}
		if !a.ReuseDailyPlan(args[0]) {
			return fmt.Errorf("no plan recorded for %s", args[0])
		}
		printPlan(a)
	case "clear":
		a.ClearHistory()
		fmt.Println("Plan and recent picks cleared.")
	case "add":
		return runAdd(a, args)
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("remove needs a meal type and a name")
		}
		a.RemoveFoodItem(menu.MealType(args[0]), strings.Join(args[1:], " "))
	case "reset":
		a.ResetMenu()
		fmt.Println("Menu restored to the default dishes.")
	case "menu":
		printMenu(a, args)
	case "shopping":
		printShopping(a)
	case "import":
		return runImport(a, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

// parseInterspersed parses fs allowing flags after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func runPick(a *app.App, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	use := fs.Bool("use", false, "Put the drawn dishes into today's plan")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("pick needs a meal type")
	}

	t := menu.MealType(rest[0])
	count := 1
	if len(rest) > 1 {
		if count, err = strconv.Atoi(rest[1]); err != nil {
			return fmt.Errorf("invalid count %q", rest[1])
		}
	}

	dishes := a.Pick(t, count)
	if len(dishes) == 0 {
		return fmt.Errorf("no dishes for %s", t)
	}
	printDishes(dishes)

	if *use {
		if !a.AddFoodToPlan(t, dishes) {
			return fmt.Errorf("%s cannot be planned", t)
		}
		fmt.Printf("\nPlanned for %s.\n", t)
	}
	return nil
}

func runAdd(a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	materials := fs.String("materials", "", "Comma-separated materials")
	tags := fs.String("tags", "", "Comma-separated tags")
	nutrition := fs.String("nutrition", "", "Comma-separated key=value nutrition levels")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("add needs a meal type and a name")
	}

	t, name := menu.MealType(rest[0]), strings.Join(rest[1:], " ")
	levels := map[string]string{}
	for _, kv := range splitList(*nutrition) {
		if k, v, ok := strings.Cut(kv, "="); ok {
			levels[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	if !a.AddFoodItem(t, name, splitList(*materials), levels, splitList(*tags)) {
		return fmt.Errorf("%s is already on the %s menu", name, t)
	}
	fmt.Printf("Added %s to %s.\n", name, t)
	return nil
}

func runImport(a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("import needs a meal type and a URL")
	}
	t := menu.MealType(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := clipper.NewClipper(nil).Clip(ctx, args[1])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if !a.AddFoodItem(t, d.Name, d.Materials, d.Nutrition, d.Tags) {
		return fmt.Errorf("%s is already on the %s menu", d.Name, t)
	}
	printDishes([]menu.Dish{d})
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func printDishes(dishes []menu.Dish) {
	for _, d := range dishes {
		fmt.Printf("- %s\n", d.Name)
		if len(d.Materials) > 0 {
			fmt.Printf("    materials: %s\n", strings.Join(d.Materials, ", "))
		}
		if len(d.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(d.Tags, ", "))
		}
	}
}

func printPlan(a *app.App) {
	plan := a.TodayPlan()
	fmt.Printf("=== PLAN FOR %s ===\n", a.Today())
	for _, t := range menu.PlannedMeals {
		fmt.Printf("%-10s: %s\n", t, strings.Join(menu.Names(plan.Meal(t)), ", "))
	}
}

func printHistory(a *app.App) {
	records := a.History()
	if len(records) == 0 {
		fmt.Println("No saved days yet.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s\n", rec.Date)
		for _, t := range menu.PlannedMeals {
			fmt.Printf("  %-10s: %s\n", t, strings.Join(rec.Plan.Meal(t), ", "))
		}
	}
}

func printMenu(a *app.App, args []string) {
	catalog := a.Catalog()
	types := catalog.Types()
	if len(args) > 0 {
		types = []menu.MealType{menu.MealType(args[0])}
	}
	for _, t := range types {
		fmt.Printf("=== %s (%d) ===\n", strings.ToUpper(string(t)), len(catalog[t]))
		printDishes(catalog[t])
	}
}

func printShopping(a *app.App) {
	items := a.ShoppingList()
	fmt.Println("=== SHOPPING LIST ===")
	for _, item := range items {
		if item.Count > 1 {
			fmt.Printf("- %s (x%d)\n", item.Material, item.Count)
			continue
		}
		fmt.Printf("- %s\n", item.Material)
	}
}

func printUsage() {
	fmt.Println("Usage: menu-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  pick <type> [count] [--use]   Draw random dishes, optionally planning them")
	fmt.Println("  plan                          Show today's plan")
	fmt.Println("  save                          Save today's plan to history")
	fmt.Println("  history                       List saved days")
	fmt.Println("  reuse <YYYY-MM-DD>            Plan today like a saved day")
	fmt.Println("  clear                         Clear the plan and recent picks")
	fmt.Println("  add <type> <name> [--materials a,b] [--tags x,y] [--nutrition k=v,...]")
	fmt.Println("  remove <type> <name>          Remove a dish")
	fmt.Println("  reset                         Restore the default menu")
	fmt.Println("  menu [type]                   List dishes")
	fmt.Println("  shopping                      Materials for today's plan")
	fmt.Println("  import <type> <url>           Add a dish from a recipe page")
}
