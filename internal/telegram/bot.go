package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/clipper"
	"menu-planner/internal/config"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
	"menu-planner/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	defaultPickCount = 1
	historyLimit     = 10
	callbackUse      = "use"
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot serves the menu store over Telegram. The store is single-owner, so
// every command runs under mu.
type Bot struct {
	api     Sender
	app     *app.App
	clipper *clipper.Clipper
	cfg     *config.Config
	log     *logger.Logger

	mu     sync.Mutex
	drafts map[int64]map[menu.MealType][]menu.Dish
}

// NewBot authorizes against Telegram and points its webhook at
// cfg.TelegramWebhookURL.
func NewBot(cfg *config.Config, application *app.App, recipeClipper *clipper.Clipper, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("Authorized on account", "username", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("Webhook set", "description", resp.Description)

	return newBot(api, cfg, application, recipeClipper, log), nil
}

func newBot(api Sender, cfg *config.Config, application *app.App, recipeClipper *clipper.Clipper, log *logger.Logger) *Bot {
	return &Bot{
		api:     api,
		app:     application,
		clipper: recipeClipper,
		cfg:     cfg,
		log:     log.With("component", "telegram"),
		drafts:  make(map[int64]map[menu.MealType][]menu.Dish),
	}
}

// RegisterHandlers adds the webhook and health endpoints to mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("Error parsing update", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch {
	case update.CallbackQuery != nil:
		if b.isAllowed(update.CallbackQuery.From) {
			go b.handleCallbackQuery(update.CallbackQuery)
		}
	case update.Message != nil:
		if b.isAllowed(update.Message.From) {
			go b.processMessage(update.Message)
		}
	}
}

func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	if slices.Contains(b.cfg.TelegramAllowedUserIDs, user.ID) {
		return true
	}
	b.log.Warn("Unauthorized access attempt", "user_id", user.ID, "username", user.UserName)
	return false
}

// reply is the answer to one command.
type reply struct {
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	r := b.dispatch(context.Background(), msg.Chat.ID, msg.Text)
	b.send(msg.Chat.ID, r)
}

func (b *Bot) send(chatID int64, r reply) {
	out := tgbotapi.NewMessage(chatID, r.text)
	out.ParseMode = tgbotapi.ModeHTML
	if r.markup != nil {
		out.ReplyMarkup = *r.markup
	}
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

// parseCommand splits "/cmd@bot args" into "cmd" and "args".
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, text string) reply {
	cmd, args := parseCommand(text)
	switch cmd {
	case "pick":
		return b.handlePick(chatID, args)
	case "plan":
		return b.locked(func() reply { return reply{text: formatPlan(b.app.Today(), b.app.TodayPlan())} })
	case "save":
		return b.locked(func() reply {
			b.app.SaveDailyPlanToHistory()
			return reply{text: "💾 Today's plan is saved to history."}
		})
	case "history":
		return b.locked(func() reply { return reply{text: formatHistory(b.app.History(), historyLimit)} })
	case "reuse":
		return b.handleReuse(args)
	case "clear":
		return b.locked(func() reply {
			b.app.ClearHistory()
			delete(b.drafts, chatID)
			return reply{text: "🧹 Plan and recent picks cleared."}
		})
	case "add":
		return b.handleAdd(args)
	case "remove":
		return b.handleRemove(args)
	case "reset":
		return b.locked(func() reply {
			b.app.ResetMenu()
			return reply{text: "♻️ Menu restored to the default dishes."}
		})
	case "menu":
		return b.handleMenu(args)
	case "shopping":
		return b.locked(func() reply { return reply{text: formatShopping(b.app.ShoppingList())} })
	case "import":
		return b.handleImport(ctx, args)
	case "status":
		return b.handleStatus()
	case "help", "start":
		return reply{text: helpText}
	default:
		return reply{text: "🤔 Unknown command. Send /help for the list."}
	}
}

func (b *Bot) locked(fn func() reply) reply {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn()
}

func (b *Bot) handlePick(chatID int64, args string) reply {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return reply{text: "Usage: /pick &lt;type&gt; [count]"}
	}
	t := menu.MealType(fields[0])
	count := defaultPickCount
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return reply{text: "Count must be a positive number."}
		}
		count = n
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.app.Catalog().Has(t) {
		return reply{text: fmt.Sprintf("Unknown meal type %s.", escape(string(t)))}
	}
	dishes := b.app.Pick(t, count)
	if len(dishes) == 0 {
		return reply{text: fmt.Sprintf("No dishes for %s yet.", escape(string(t)))}
	}
	if b.drafts[chatID] == nil {
		b.drafts[chatID] = make(map[menu.MealType][]menu.Dish)
	}
	b.drafts[chatID][t] = dishes

	r := reply{text: formatDishes(fmt.Sprintf("🎲 %s", mealLabel(t)), dishes)}
	if t.IsPlanned() {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Use for "+string(t), callbackUse+"|"+string(t)),
			),
		)
		r.markup = &keyboard
	}
	return r
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	action, arg, ok := strings.Cut(query.Data, "|")
	if !ok || action != callbackUse {
		return
	}
	b.send(chatID, b.useDraft(chatID, menu.MealType(arg)))
}

// useDraft commits the chat's last draw for t to today's plan.
func (b *Bot) useDraft(chatID int64, t menu.MealType) reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	dishes, ok := b.drafts[chatID][t]
	if !ok {
		return reply{text: "That pick has expired, send /pick again."}
	}
	if !b.app.AddFoodToPlan(t, dishes) {
		return reply{text: fmt.Sprintf("Could not plan %s.", escape(string(t)))}
	}
	delete(b.drafts[chatID], t)
	return reply{text: formatPlan(b.app.Today(), b.app.TodayPlan())}
}

func (b *Bot) handleReuse(args string) reply {
	date := strings.TrimSpace(args)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return reply{text: "Usage: /reuse YYYY-MM-DD"}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.app.ReuseDailyPlan(date) {
		return reply{text: fmt.Sprintf("No plan recorded for %s.", date)}
	}
	return reply{text: formatPlan(b.app.Today(), b.app.TodayPlan())}
}

// parseAdd reads "<type> <name>; a,b; x,y; k=v,k=v".
func parseAdd(args string) (menu.MealType, menu.Dish, bool) {
	parts := strings.Split(args, ";")
	head := strings.Fields(parts[0])
	if len(head) < 2 {
		return "", menu.Dish{}, false
	}
	t := menu.MealType(head[0])
	name := strings.Join(head[1:], " ")

	var materials, tags []string
	nutrition := map[string]string{}
	if len(parts) > 1 {
		materials = splitList(parts[1])
	}
	if len(parts) > 2 {
		tags = splitList(parts[2])
	}
	if len(parts) > 3 {
		for _, kv := range splitList(parts[3]) {
			k, v, ok := strings.Cut(kv, "=")
			if ok && strings.TrimSpace(k) != "" {
				nutrition[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
	return t, menu.NewDish(name, materials, nutrition, tags), true
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

func (b *Bot) handleAdd(args string) reply {
	t, d, ok := parseAdd(args)
	if !ok {
		return reply{text: "Usage: /add &lt;type&gt; &lt;name&gt;; materials; tags; key=value"}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.app.AddFoodItem(t, d.Name, d.Materials, d.Nutrition, d.Tags) {
		return reply{text: fmt.Sprintf("%s is already on the %s menu.", escape(d.Name), escape(string(t)))}
	}
	return reply{text: fmt.Sprintf("➕ Added %s to %s.", escape(d.Name), escape(string(t)))}
}

func (b *Bot) handleRemove(args string) reply {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return reply{text: "Usage: /remove &lt;type&gt; &lt;name&gt;"}
	}
	t := menu.MealType(fields[0])
	name := strings.Join(fields[1:], " ")

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.app.Catalog().Contains(t, name) {
		return reply{text: fmt.Sprintf("%s is not on the %s menu.", escape(name), escape(string(t)))}
	}
	b.app.RemoveFoodItem(t, name)
	return reply{text: fmt.Sprintf("➖ Removed %s from %s.", escape(name), escape(string(t)))}
}

func (b *Bot) handleMenu(args string) reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	catalog := b.app.Catalog()
	if t := menu.MealType(strings.TrimSpace(args)); t != "" {
		if !catalog.Has(t) {
			return reply{text: fmt.Sprintf("Unknown meal type %s.", escape(string(t)))}
		}
		return reply{text: formatDishes(fmt.Sprintf("📋 %s", mealLabel(t)), catalog[t])}
	}
	return reply{text: formatMenu(catalog)}
}

func (b *Bot) handleImport(ctx context.Context, args string) reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return reply{text: "Usage: /import &lt;type&gt; &lt;url&gt;"}
	}
	t, url := menu.MealType(fields[0]), fields[1]

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	d, err := b.clipper.Clip(ctx, url)
	if err != nil {
		b.log.Warn("Error clipping dish", "url", url, "error", err)
		return reply{text: fmt.Sprintf("❌ Could not import dish:\n<pre>%s</pre>", escape(err.Error()))}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.app.AddFoodItem(t, d.Name, d.Materials, d.Nutrition, d.Tags) {
		return reply{text: fmt.Sprintf("%s is already on the %s menu.", escape(d.Name), escape(string(t)))}
	}
	return reply{text: formatDishes(fmt.Sprintf("✂️ Imported into %s", mealLabel(t)), []menu.Dish{d})}
}

func (b *Bot) handleStatus() reply {
	b.mu.Lock()
	dishes := 0
	for _, group := range b.app.Catalog() {
		dishes += len(group)
	}
	days := len(b.app.History())
	b.mu.Unlock()

	health := metrics.GetSysHealth(b.cfg.DataDir)
	return reply{text: formatStatus(b.cfg.StoreBackend, dishes, days, health)}
}
