package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"backend/models"
	"backend/storage"
)

type fakeAnalyzer struct {
	facts models.NutritionFacts
	err   error
	calls int
}

func (f *fakeAnalyzer) AnalyzeText(ctx context.Context, text string) (models.NutritionFacts, error) {
	f.calls++
	return f.facts, f.err
}

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, image []byte) (models.NutritionFacts, error) {
	f.calls++
	return f.facts, f.err
}

type failingStore struct {
	storage.Store
}

func (s *failingStore) Set(key string, value []byte) error {
	return errors.New("disk full")
}

func sandwichFacts() models.NutritionFacts {
	return models.NutritionFacts{FoodItem: "Sandwich", Calories: 250, Protein: 15, Carbs: 30, Fat: 8}
}

func newTestLedger(t *testing.T, store storage.Store, fa FoodAnalyzer) *LedgerService {
	t.Helper()
	svc := NewLedgerService(store, fa, nil)
	svc.nowFn = func() time.Time { return time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC) }
	svc.selectedDate = "2026-03-14"
	return svc
}

func storedLedger(t *testing.T, store storage.Store) models.Ledger {
	t.Helper()
	raw, ok, err := store.Get(storage.KeyLedger)
	if err != nil {
		t.Fatalf("get ledger slot: %v", err)
	}
	if !ok {
		return nil
	}
	var l models.Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		t.Fatalf("unmarshal stored ledger: %v", err)
	}
	return l
}

func TestRecordFromTextRejectsBlankInput(t *testing.T) {
	t.Parallel()

	fa := &fakeAnalyzer{facts: sandwichFacts()}
	store := storage.NewMemoryStore()
	svc := newTestLedger(t, store, fa)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, _, err := svc.RecordFromText(context.Background(), text); !errors.Is(err, ErrValidation) {
			t.Fatalf("text %q: want ErrValidation, got %v", text, err)
		}
	}
	if fa.calls != 0 {
		t.Fatalf("analyzer should not be called for blank input, got %d calls", fa.calls)
	}
	if storedLedger(t, store) != nil {
		t.Fatal("nothing should have been persisted")
	}
}

func TestRecordFromTextAnalyzerFailureLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	fa := &fakeAnalyzer{err: errors.New("service unreachable")}
	store := storage.NewMemoryStore()
	svc := newTestLedger(t, store, fa)

	if _, _, err := svc.RecordFromText(context.Background(), "a sandwich"); !errors.Is(err, ErrAnalysis) {
		t.Fatalf("want ErrAnalysis, got %v", err)
	}
	if day := svc.Day(""); len(day.Items) != 0 {
		t.Fatalf("failed analysis must not mutate the ledger: %+v", day)
	}
	if storedLedger(t, store) != nil {
		t.Fatal("nothing should have been persisted")
	}
}

func TestRecordFromTextAddsAndPersists(t *testing.T) {
	t.Parallel()

	fa := &fakeAnalyzer{facts: sandwichFacts()}
	store := storage.NewMemoryStore()
	svc := newTestLedger(t, store, fa)

	item, day, err := svc.RecordFromText(context.Background(), "a sandwich")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if item.Name != "Sandwich" || item.Source != models.SourceText {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Time != "12:30:00 PM" {
		t.Fatalf("unexpected time string: %q", item.Time)
	}
	if item.ID == "" {
		t.Fatal("item should get an id")
	}
	if day.Calories != 250 || len(day.Items) != 1 {
		t.Fatalf("unexpected day: %+v", day)
	}

	persisted := storedLedger(t, store)
	if len(persisted["2026-03-14"].Items) != 1 {
		t.Fatalf("mutation not persisted: %+v", persisted)
	}
}

func TestRecordFromImage(t *testing.T) {
	t.Parallel()

	fa := &fakeAnalyzer{facts: sandwichFacts()}
	svc := newTestLedger(t, storage.NewMemoryStore(), fa)

	if _, _, err := svc.RecordFromImage(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty payload: want ErrValidation, got %v", err)
	}

	item, _, err := svc.RecordFromImage(context.Background(), []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if item.Source != models.SourceImage {
		t.Fatalf("want image source, got %q", item.Source)
	}
}

func TestRecordManualValidation(t *testing.T) {
	t.Parallel()

	svc := newTestLedger(t, storage.NewMemoryStore(), &fakeAnalyzer{})

	if _, _, err := svc.RecordManual(models.FoodItem{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: want ErrValidation, got %v", err)
	}
	if _, _, err := svc.RecordManual(models.FoodItem{Name: "Oops", Calories: -1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative calories: want ErrValidation, got %v", err)
	}

	item, day, err := svc.RecordManual(models.FoodItem{Name: "Apple", Calories: 95, Carbs: 25})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if item.Source != models.SourceManual {
		t.Fatalf("want manual source, got %q", item.Source)
	}
	if day.Calories != 95 {
		t.Fatalf("unexpected day: %+v", day)
	}
}

func TestRemoveItemPersistsAndRejectsBadIndex(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	svc := newTestLedger(t, store, &fakeAnalyzer{facts: sandwichFacts()})

	if _, _, err := svc.RecordFromText(context.Background(), "a sandwich"); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := svc.RemoveItem("2026-03-14", 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	if _, err := svc.RemoveItem("not-a-date", 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if persisted := storedLedger(t, store); len(persisted["2026-03-14"].Items) != 1 {
		t.Fatalf("failed removal should not change persisted state: %+v", persisted)
	}

	day, err := svc.RemoveItem("2026-03-14", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if day.Calories != 0 || len(day.Items) != 0 {
		t.Fatalf("expected zero record, got %+v", day)
	}
	if persisted := storedLedger(t, store); len(persisted) != 0 {
		t.Fatalf("emptied day should not be persisted: %+v", persisted)
	}
}

func TestDateNavigationClampsAtToday(t *testing.T) {
	t.Parallel()

	svc := newTestLedger(t, storage.NewMemoryStore(), &fakeAnalyzer{})

	if _, err := svc.SelectDate("2026/03/01"); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad format: want ErrValidation, got %v", err)
	}

	got, err := svc.SelectDate("2026-03-01")
	if err != nil || got != "2026-03-01" {
		t.Fatalf("select past date: got %q, %v", got, err)
	}

	// A future date is a no-op that keeps the current selection.
	got, err = svc.SelectDate("2026-03-20")
	if err != nil || got != "2026-03-01" {
		t.Fatalf("future select should be a no-op: got %q, %v", got, err)
	}

	if got := svc.ShiftDate(-1); got != "2026-02-28" {
		t.Fatalf("shift back: want 2026-02-28, got %q", got)
	}
	if got := svc.ShiftDate(20); got != "2026-02-28" {
		t.Fatalf("shift past today should be a no-op, got %q", got)
	}
	if _, err := svc.SelectDate("2026-03-14"); err != nil {
		t.Fatalf("select today: %v", err)
	}
	if got := svc.ShiftDate(1); got != "2026-03-14" {
		t.Fatalf("shift forward at today should stay, got %q", got)
	}
}

func TestLedgerReloadsAcrossRestarts(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	first := newTestLedger(t, store, &fakeAnalyzer{facts: sandwichFacts()})
	if _, _, err := first.RecordFromText(context.Background(), "a sandwich"); err != nil {
		t.Fatalf("record: %v", err)
	}

	second := newTestLedger(t, store, &fakeAnalyzer{})
	day := second.Day("2026-03-14")
	if day.Calories != 250 || len(day.Items) != 1 {
		t.Fatalf("restart lost the ledger: %+v", day)
	}
}

func TestMalformedPersistedLedgerDegradesToEmpty(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	if err := store.Set(storage.KeyLedger, []byte("{not json")); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	svc := newTestLedger(t, store, &fakeAnalyzer{})
	if day := svc.Day("2026-03-14"); len(day.Items) != 0 {
		t.Fatalf("expected empty ledger, got %+v", day)
	}
}

func TestPersistenceFailureKeepsInMemoryState(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	svc := newTestLedger(t, &failingStore{Store: mem}, &fakeAnalyzer{})

	_, day, err := svc.RecordManual(models.FoodItem{Name: "Apple", Calories: 95})
	if err != nil {
		t.Fatalf("a storage failure must not fail the mutation: %v", err)
	}
	if day.Calories != 95 {
		t.Fatalf("unexpected day: %+v", day)
	}
	if _, ok, _ := mem.Get(storage.KeyLedger); ok {
		t.Fatal("write should have failed before reaching the backing store")
	}
}

func TestConcurrentMutationsPersistNewestState(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	svc := newTestLedger(t, store, &fakeAnalyzer{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.RecordManual(models.FoodItem{Name: "Apple", Calories: 95}); err != nil {
				t.Errorf("record: %v", err)
			}
		}()
	}
	wg.Wait()

	// Writes are serialized, so the last envelope to land must carry
	// every completed mutation, never a stale snapshot.
	persisted := storedLedger(t, store)["2026-03-14"]
	inMemory := svc.Day("2026-03-14")
	if len(persisted.Items) != 20 || persisted.Calories != inMemory.Calories {
		t.Fatalf("persisted day diverged: %d items / %v cal, memory has %v cal",
			len(persisted.Items), persisted.Calories, inMemory.Calories)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	profile := models.Profile{Name: "Alex", Age: 30, Gender: models.GenderMale, Height: 175, Weight: 70,
		ActivityLevel: models.ActivityModerate, Goal: models.GoalMaintain}
	profileRaw, _ := json.Marshal(profile)
	if err := store.Set(storage.KeyProfile, profileRaw); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	svc := newTestLedger(t, store, &fakeAnalyzer{facts: sandwichFacts()})
	if _, _, err := svc.RecordFromText(context.Background(), "a sandwich"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := svc.SelectDate("2026-03-10"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, _, err := svc.RecordManual(models.FoodItem{Name: "Coffee", Calories: 5}); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap := svc.ExportSnapshot()
	if snap.Profile == nil || snap.Profile.Name != "Alex" {
		t.Fatalf("export missing profile: %+v", snap.Profile)
	}
	if snap.ExportedAt == "" {
		t.Fatal("export missing timestamp")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	freshStore := storage.NewMemoryStore()
	fresh := newTestLedger(t, freshStore, &fakeAnalyzer{})
	if err := fresh.ImportSnapshot(raw); err != nil {
		t.Fatalf("import: %v", err)
	}

	if !reflect.DeepEqual(svc.ledger.SnapshotLedger(), fresh.ledger.SnapshotLedger()) {
		t.Fatalf("round trip changed the ledger\nwant: %+v\ngot:  %+v",
			svc.ledger.SnapshotLedger(), fresh.ledger.SnapshotLedger())
	}
	if raw, ok, _ := freshStore.Get(storage.KeyProfile); !ok || len(raw) == 0 {
		t.Fatal("imported profile was not persisted")
	}
	if raw, ok, _ := freshStore.Get(storage.KeyLedger); !ok || len(raw) == 0 {
		t.Fatal("imported ledger was not persisted")
	}
}

func TestImportWithoutLedgerIsRejectedUntouched(t *testing.T) {
	t.Parallel()

	svc := newTestLedger(t, storage.NewMemoryStore(), &fakeAnalyzer{})
	if _, _, err := svc.RecordManual(models.FoodItem{Name: "Apple", Calories: 95}); err != nil {
		t.Fatalf("record: %v", err)
	}

	cases := map[string]string{
		"no ledger key":  `{"userProfile":{"name":"Eve"}}`,
		"not json":       `{`,
		"bad ledger key": `{"dailyData":{"03/14/2026":{"items":[]}}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if err := svc.ImportSnapshot([]byte(raw)); !errors.Is(err, ErrFormat) {
				t.Fatalf("want ErrFormat, got %v", err)
			}
		})
	}

	if day := svc.Day("2026-03-14"); len(day.Items) != 1 {
		t.Fatalf("failed import mutated the ledger: %+v", day)
	}
}

func TestImportWithoutProfileKeepsExistingProfile(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	if err := store.Set(storage.KeyProfile, []byte(`{"name":"Alex"}`)); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	svc := newTestLedger(t, store, &fakeAnalyzer{})

	if err := svc.ImportSnapshot([]byte(`{"dailyData":{}}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	raw, ok, _ := store.Get(storage.KeyProfile)
	if !ok || string(raw) != `{"name":"Alex"}` {
		t.Fatalf("partial import must preserve the profile, got %q", raw)
	}
}

func TestImportRecomputesDriftedSums(t *testing.T) {
	t.Parallel()

	svc := newTestLedger(t, storage.NewMemoryStore(), &fakeAnalyzer{})
	raw := `{"dailyData":{"2026-03-01":{"calories":9999,"protein":0,"carbs":0,"fat":0,
		"items":[{"name":"Sandwich","calories":250,"protein":15,"carbs":30,"fat":8,"time":"noon","type":"text"}]}}}`
	if err := svc.ImportSnapshot([]byte(raw)); err != nil {
		t.Fatalf("import: %v", err)
	}

	day := svc.Day("2026-03-01")
	if day.Calories != 250 || day.Protein != 15 || day.Carbs != 30 || day.Fat != 8 {
		t.Fatalf("sums not recomputed from items: %+v", day)
	}
}
