package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jizhang/internal/core"
	"jizhang/internal/kv/memory"
	applog "jizhang/internal/log"
)

var errBoom = errors.New("storage exploded")

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// testClock hands out strictly increasing instants so ids never collide.
func testClock() func() time.Time {
	t := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	kvStore := memory.New()
	return New(kvStore, testLogger(), WithClock(testClock())), kvStore
}

func TestLoadFirstRunSeedsRecords(t *testing.T) {
	st, kvStore := newTestStore(t)
	st.Load(context.Background())

	records := st.Records()
	require.Len(t, records, 2)
	assert.Equal(t, core.Expense, records[0].Type)
	assert.Equal(t, core.Income, records[1].Type)

	// The seed is persisted; the default categories are not.
	raw, ok, err := kvStore.Get(context.Background(), RecordsKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []core.Record
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 2)

	_, ok, err = kvStore.Get(context.Background(), CategoriesKey)
	require.NoError(t, err)
	assert.False(t, ok)

	cats := st.Categories()
	assert.Len(t, cats.Expense, 6)
	assert.Len(t, cats.Income, 4)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, kvStore := newTestStore(t)
	st.Load(ctx)

	in := core.Record{
		Type:     core.Expense,
		Amount:   42.5,
		Category: "transport",
		Note:     "地铁",
		Date:     time.Date(2024, time.March, 14, 8, 30, 0, 0, time.UTC),
	}
	saved, err := st.SaveRecord(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	// A fresh facade over the same kv sees the record, id included.
	st2 := New(kvStore, testLogger(), WithClock(testClock()))
	st2.Load(ctx)

	records := st2.Records()
	require.Len(t, records, 3)
	got := records[2]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, in.Type, got.Type)
	assert.Equal(t, in.Amount, got.Amount)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.Note, got.Note)
	assert.True(t, got.Date.Equal(in.Date), "date must survive the round trip")
}

func TestSaveRecordValidates(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	st.Load(ctx)

	_, err := st.SaveRecord(ctx, core.Record{Type: "transfer", Amount: 1, Category: "food", Date: time.Now()})
	assert.ErrorIs(t, err, core.ErrInvalidType)
	assert.Len(t, st.Records(), 2, "nothing may be persisted on validation failure")
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	st.Load(ctx)

	records := st.Records()
	require.NoError(t, st.DeleteRecord(ctx, records[0].ID))

	left := st.Records()
	require.Len(t, left, 1)
	assert.Equal(t, records[1].ID, left[0].ID)

	// Unknown ids delete to a no-op, not an error.
	require.NoError(t, st.DeleteRecord(ctx, "no-such-id"))
	assert.Len(t, st.Records(), 1)
}

func TestWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	st, kvStore := newTestStore(t)
	st.Load(ctx)
	before := st.Records()

	kvStore.FailWrites(errBoom)

	_, err := st.SaveRecord(ctx, core.Record{
		Type: core.Expense, Amount: 1, Category: "food", Date: time.Now(),
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, st.Records())

	assert.ErrorIs(t, st.DeleteRecord(ctx, before[0].ID), errBoom)
	assert.Equal(t, before, st.Records())

	_, err = st.AddCategory(ctx, core.Expense, core.Category{Label: "宠物"})
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, st.Categories().Expense, 6)
}

func TestReadFailureFallsBackToDefaults(t *testing.T) {
	st, kvStore := newTestStore(t)
	kvStore.FailReads(errBoom)

	st.Load(context.Background())

	assert.Len(t, st.Records(), 2)
	assert.Len(t, st.Categories().Expense, 6)
}

func TestCorruptBlobFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	st, kvStore := newTestStore(t)
	require.NoError(t, kvStore.Set(ctx, RecordsKey, []byte("not json")))

	st.Load(ctx)

	assert.Len(t, st.Records(), 2)
	assert.Len(t, st.Categories().Income, 4)
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	st, kvStore := newTestStore(t)
	st.Load(ctx)

	added, err := st.AddCategory(ctx, core.Expense, core.Category{Label: "宠物", Icon: "paw"})
	require.NoError(t, err)
	assert.Contains(t, added.ID, "custom_")
	assert.Equal(t, core.OriginCustom, added.Origin)
	assert.True(t, added.Deletable())

	// Persisted under the categories key.
	raw, ok, err := kvStore.Get(ctx, CategoriesKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted core.CategorySet
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted.Expense, 7)

	// Duplicate ids within one type are refused.
	_, err = st.AddCategory(ctx, core.Expense, core.Category{ID: added.ID, Label: "重复"})
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	st.Load(ctx)

	assert.ErrorIs(t, st.DeleteCategory(ctx, core.Expense, "food"), ErrBuiltinCategory)

	added, err := st.AddCategory(ctx, core.Expense, core.Category{Label: "宠物", Icon: "paw"})
	require.NoError(t, err)
	require.NoError(t, st.DeleteCategory(ctx, core.Expense, added.ID))
	_, found := st.Categories().Find(core.Expense, added.ID)
	assert.False(t, found)

	// Records referencing the deleted id degrade to the placeholder.
	got := st.Categories().Resolve(core.Expense, added.ID)
	assert.Equal(t, core.UnknownCategoryLabel, got.Label)
	assert.Equal(t, core.UnknownCategoryIcon, got.Icon)
}

func TestLegacyBlobOriginNormalization(t *testing.T) {
	ctx := context.Background()
	kvStore := memory.New()

	// A categories blob written before the origin field existed.
	legacy := `{
		"expense": [
			{"id": "food", "label": "餐饮", "icon": "food"},
			{"id": "custom_1700000000000", "label": "宠物", "icon": "paw"}
		],
		"income": [
			{"id": "salary", "label": "工资", "icon": "cash"}
		]
	}`
	require.NoError(t, kvStore.Set(ctx, CategoriesKey, []byte(legacy)))

	st := New(kvStore, testLogger(), WithClock(testClock()))
	st.Load(ctx)

	cats := st.Categories()
	food, ok := cats.Find(core.Expense, "food")
	require.True(t, ok)
	assert.False(t, food.Deletable())

	pet, ok := cats.Find(core.Expense, "custom_1700000000000")
	require.True(t, ok)
	assert.True(t, pet.Deletable())
}

func TestAccessorsReturnCopies(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	st.Load(ctx)

	records := st.Records()
	records[0].Amount = 999999
	assert.NotEqual(t, 999999.0, st.Records()[0].Amount)

	cats := st.Categories()
	cats.Expense[0].Label = "tampered"
	assert.NotEqual(t, "tampered", st.Categories().Expense[0].Label)
}

func TestCustomKeys(t *testing.T) {
	ctx := context.Background()
	kvStore := memory.New()
	st := New(kvStore, testLogger(), WithClock(testClock()), WithKeys("R", "C"))
	st.Load(ctx)

	_, ok, err := kvStore.Get(ctx, "R")
	require.NoError(t, err)
	assert.True(t, ok, "seed must land under the configured records key")
}
