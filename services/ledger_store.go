package services

import (
	"sync"

	"backend/models"
)

// LedgerStore holds the in-memory ledger. Every mutation is applied under
// the write lock, so a concurrent reader never sees running sums out of
// step with the item list.
type LedgerStore struct {
	mu   sync.RWMutex
	days map[string]models.DayRecord
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{days: make(map[string]models.DayRecord)}
}

// Day returns a copy of the record for date, zero-valued when the date has
// no entries yet. Never nil, never an error.
func (s *LedgerStore) Day(date string) models.DayRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDay(s.days[date])
}

// AddItem appends item to the date's sequence and bumps all four running
// sums in the same step.
func (s *LedgerStore) AddItem(date string, item models.FoodItem) models.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.days[date]
	day.Calories += item.Calories
	day.Protein += item.Protein
	day.Carbs += item.Carbs
	day.Fat += item.Fat
	day.Items = append(day.Items, item)
	s.days[date] = day
	return copyDay(day)
}

// RemoveItem deletes the item at index and walks the sums back by that
// item's fields. Sums may go negative after a correction; they are never
// clamped. An out-of-range index leaves the day untouched.
func (s *LedgerStore) RemoveItem(date string, index int) (models.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[date]
	if !ok || index < 0 || index >= len(day.Items) {
		return models.DayRecord{}, ErrIndexOutOfRange
	}

	item := day.Items[index]
	day.Calories -= item.Calories
	day.Protein -= item.Protein
	day.Carbs -= item.Carbs
	day.Fat -= item.Fat
	day.Items = append(day.Items[:index:index], day.Items[index+1:]...)
	s.days[date] = day
	return copyDay(day), nil
}

// SnapshotLedger copies the whole ledger, skipping days emptied by
// removals; an empty day is the same as an absent one.
func (s *LedgerStore) SnapshotLedger() models.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(models.Ledger, len(s.days))
	for date, day := range s.days {
		if len(day.Items) == 0 {
			continue
		}
		out[date] = copyDay(day)
	}
	return out
}

// ReplaceLedger swaps in a whole new ledger, as after an import or reload.
func (s *LedgerStore) ReplaceLedger(l models.Ledger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = make(map[string]models.DayRecord, len(l))
	for date, day := range l {
		s.days[date] = copyDay(day)
	}
}

func copyDay(day models.DayRecord) models.DayRecord {
	out := day
	out.Items = make([]models.FoodItem, len(day.Items))
	copy(out.Items, day.Items)
	return out
}
