package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"backend/models"
	"backend/storage"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "3:04:05 PM"
)

// LedgerService is the engine behind the daily ledger: it owns the active
// date, runs the recognition flow, keeps durable storage in sync with every
// mutation, and produces/consumes full-state snapshots.
type LedgerService struct {
	ledger   *LedgerStore
	store    storage.Store
	analyzer FoodAnalyzer
	hub      *RealtimeHub

	mu           sync.Mutex
	selectedDate string

	// persistMu serializes whole-envelope writes, so the last write to
	// land always carries the newest snapshot.
	persistMu sync.Mutex

	nowFn func() time.Time
}

func NewLedgerService(store storage.Store, analyzer FoodAnalyzer, hub *RealtimeHub) *LedgerService {
	s := &LedgerService{
		ledger:   NewLedgerStore(),
		store:    store,
		analyzer: analyzer,
		hub:      hub,
		nowFn:    time.Now,
	}
	s.selectedDate = s.today()
	s.loadLedger()
	return s
}

// loadLedger restores the persisted ledger. A missing or malformed payload
// degrades to an empty ledger rather than failing startup.
func (s *LedgerService) loadLedger() {
	raw, ok, err := s.store.Get(storage.KeyLedger)
	if err != nil {
		log.Printf("warning: ledger load failed, starting empty: %v", err)
		return
	}
	if !ok {
		return
	}

	var l models.Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		log.Printf("warning: stored ledger is malformed, starting empty: %v", err)
		return
	}
	normalizeLedger(l)
	s.ledger.ReplaceLedger(l)
}

// persistLedger writes the whole ledger to durable storage. A failed write
// is logged as a warning; the in-memory state stays authoritative and the
// next mutation rewrites the full envelope.
func (s *LedgerService) persistLedger() {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	raw, err := json.Marshal(s.ledger.SnapshotLedger())
	if err != nil {
		log.Printf("warning: could not marshal ledger: %v", err)
		return
	}
	if err := s.store.Set(storage.KeyLedger, raw); err != nil {
		log.Printf("warning: ledger persistence failed: %v", err)
	}
}

func (s *LedgerService) afterMutation(date string, day models.DayRecord) {
	s.persistLedger()
	if s.hub != nil {
		s.hub.BroadcastDayUpdate(date, day)
	}
}

func (s *LedgerService) today() string {
	return s.nowFn().Format(dateLayout)
}

// SelectedDate returns the currently active date.
func (s *LedgerService) SelectedDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// SelectDate moves the active date. Any past date is accepted; a date past
// today is a no-op that keeps the current selection.
func (s *LedgerService) SelectDate(date string) (string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return s.SelectedDate(), fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if date > s.today() {
		return s.selectedDate, nil
	}
	s.selectedDate = date
	return s.selectedDate, nil
}

// ShiftDate moves the active date by days (usually +1 or -1). Forward
// navigation clamps at today.
func (s *LedgerService) ShiftDate(days int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := time.Parse(dateLayout, s.selectedDate)
	if err != nil {
		s.selectedDate = s.today()
		return s.selectedDate
	}
	next := d.AddDate(0, 0, days).Format(dateLayout)
	if next > s.today() {
		return s.selectedDate
	}
	s.selectedDate = next
	return s.selectedDate
}

// Day returns the record for date, or for the active date when date is
// empty.
func (s *LedgerService) Day(date string) models.DayRecord {
	if date == "" {
		date = s.SelectedDate()
	}
	return s.ledger.Day(date)
}

// RecordFromText analyzes a free-text food description and adds the result
// to the active date.
func (s *LedgerService) RecordFromText(ctx context.Context, text string) (models.FoodItem, models.DayRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: empty food description", ErrValidation)
	}

	facts, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	item, day := s.addFacts(facts, models.SourceText)
	return item, day, nil
}

// RecordFromImage analyzes a raw image payload and adds the result to the
// active date.
func (s *LedgerService) RecordFromImage(ctx context.Context, image []byte) (models.FoodItem, models.DayRecord, error) {
	if len(image) == 0 {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: empty image payload", ErrValidation)
	}

	facts, err := s.analyzer.AnalyzeImage(ctx, image)
	if err != nil {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	item, day := s.addFacts(facts, models.SourceImage)
	return item, day, nil
}

// RecordManual adds a hand-entered item; no collaborator involved.
func (s *LedgerService) RecordManual(item models.FoodItem) (models.FoodItem, models.DayRecord, error) {
	if strings.TrimSpace(item.Name) == "" {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: item name required", ErrValidation)
	}
	if item.Calories < 0 || item.Protein < 0 || item.Carbs < 0 || item.Fat < 0 {
		return models.FoodItem{}, models.DayRecord{}, fmt.Errorf("%w: negative nutrition values", ErrValidation)
	}

	facts := models.NutritionFacts{
		FoodItem: strings.TrimSpace(item.Name),
		Calories: item.Calories,
		Protein:  item.Protein,
		Carbs:    item.Carbs,
		Fat:      item.Fat,
	}
	added, day := s.addFacts(facts, models.SourceManual)
	return added, day, nil
}

func (s *LedgerService) addFacts(facts models.NutritionFacts, source models.FoodSource) (models.FoodItem, models.DayRecord) {
	item := models.FoodItem{
		ID:       uuid.NewString(),
		Name:     facts.FoodItem,
		Calories: facts.Calories,
		Protein:  facts.Protein,
		Carbs:    facts.Carbs,
		Fat:      facts.Fat,
		Time:     s.nowFn().Format(timeLayout),
		Source:   source,
	}

	date := s.SelectedDate()
	day := s.ledger.AddItem(date, item)
	s.afterMutation(date, day)
	return item, day
}

// RemoveItem removes the item at index from date's record.
func (s *LedgerService) RemoveItem(date string, index int) (models.DayRecord, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.DayRecord{}, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	day, err := s.ledger.RemoveItem(date, index)
	if err != nil {
		return models.DayRecord{}, err
	}
	s.afterMutation(date, day)
	return day, nil
}

// ExportSnapshot bundles the ledger and profile into the backup format the
// original client produced.
func (s *LedgerService) ExportSnapshot() models.Snapshot {
	snap := models.Snapshot{
		Ledger:     s.ledger.SnapshotLedger(),
		ExportedAt: s.nowFn().Format(time.RFC3339),
	}
	if raw, ok, err := s.store.Get(storage.KeyProfile); err == nil && ok {
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err == nil {
			snap.Profile = &p
		}
	}
	return snap
}

// ExportFilename names the backup artifact after the export date.
func (s *LedgerService) ExportFilename() string {
	return fmt.Sprintf("calories-tracker-backup-%s.json", s.today())
}

// ImportSnapshot replaces the whole ledger (and the profile, when the
// snapshot carries one) and persists immediately. A snapshot without a
// ledger is rejected with the current state untouched.
func (s *LedgerService) ImportSnapshot(raw []byte) error {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if snap.Ledger == nil {
		return fmt.Errorf("%w: dailyData missing", ErrFormat)
	}
	for date := range snap.Ledger {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fmt.Errorf("%w: bad ledger date %q", ErrFormat, date)
		}
	}

	normalizeLedger(snap.Ledger)
	s.ledger.ReplaceLedger(snap.Ledger)
	s.persistLedger()

	if snap.Profile != nil {
		if raw, err := json.Marshal(snap.Profile); err == nil {
			if err := s.store.Set(storage.KeyProfile, raw); err != nil {
				log.Printf("warning: profile persistence failed: %v", err)
			}
		}
	}

	if s.hub != nil {
		date := s.SelectedDate()
		s.hub.BroadcastDayUpdate(date, s.ledger.Day(date))
	}
	return nil
}

// ResetLedger drops all in-memory days and the persisted copy.
func (s *LedgerService) ResetLedger() {
	s.ledger.ReplaceLedger(models.Ledger{})
	if err := s.store.Remove(storage.KeyLedger); err != nil {
		log.Printf("warning: could not clear stored ledger: %v", err)
	}
}

// normalizeLedger recomputes each day's running sums from its items, so a
// hand-edited or drifted backup cannot violate the sum invariant.
func normalizeLedger(l models.Ledger) {
	for date, day := range l {
		var cals, prot, carbs, fat float64
		for _, it := range day.Items {
			cals += it.Calories
			prot += it.Protein
			carbs += it.Carbs
			fat += it.Fat
		}
		day.Calories = cals
		day.Protein = prot
		day.Carbs = carbs
		day.Fat = fat
		l[date] = day
	}
}
