package planner

import (
	"errors"
	"slices"
	"time"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
)

// LedgerKey is where the daily history records are persisted.
const LedgerKey = "daily-plan-history"

// DateLayout formats the ledger's date keys.
const DateLayout = "2006-01-02"

// DayRecord is the snapshot of one day's plan, by dish name.
type DayRecord struct {
	Date string    `json:"date"`
	Plan PlanNames `json:"plan"`
}

// Ledger keeps one DayRecord per date, most recent first.
type Ledger struct {
	kv      kvstore.KV
	now     func() time.Time
	records []DayRecord
	log     *logger.Logger
}

// NewLedger loads the persisted ledger. A malformed value starts an empty one.
func NewLedger(kv kvstore.KV, now func() time.Time, log *logger.Logger) *Ledger {
	l := &Ledger{
		kv:  kv,
		now: now,
		log: log.With("component", "ledger"),
	}
	if err := kvstore.GetJSON(kv, LedgerKey, &l.records); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			l.log.Warn("Persisted daily history is malformed, starting empty", "error", err)
		}
		l.records = nil
	}
	return l
}

// Today returns the date key for the current local day.
func (l *Ledger) Today() string {
	return l.now().Format(DateLayout)
}

// ReconcileToday makes today's record match plan: an empty plan removes the
// record, otherwise it is replaced in place or inserted at the front. The
// ledger is persisted either way.
func (l *Ledger) ReconcileToday(plan Plan) {
	dateKey := l.Today()
	idx := l.indexOf(dateKey)

	switch {
	case plan.IsEmpty():
		if idx >= 0 {
			l.records = slices.Delete(l.records, idx, idx+1)
		}
	case idx >= 0:
		l.records[idx].Plan = plan.Names()
	default:
		l.records = slices.Insert(l.records, 0, DayRecord{Date: dateKey, Plan: plan.Names()})
	}

	l.save()
}

// Lookup returns the record for dateKey.
func (l *Ledger) Lookup(dateKey string) (DayRecord, bool) {
	idx := l.indexOf(dateKey)
	if idx < 0 {
		return DayRecord{}, false
	}
	r := l.records[idx]
	return DayRecord{Date: r.Date, Plan: r.Plan.clone()}, true
}

// Records returns a copy of the ledger, most recent first.
func (l *Ledger) Records() []DayRecord {
	out := make([]DayRecord, len(l.records))
	for i, r := range l.records {
		out[i] = DayRecord{Date: r.Date, Plan: r.Plan.clone()}
	}
	return out
}

func (l *Ledger) indexOf(dateKey string) int {
	return slices.IndexFunc(l.records, func(r DayRecord) bool { return r.Date == dateKey })
}

func (l *Ledger) save() {
	records := l.records
	if records == nil {
		records = []DayRecord{}
	}
	if err := kvstore.SetJSON(l.kv, LedgerKey, records); err != nil {
		l.log.Error("Failed to persist daily history", "error", err)
	}
}
