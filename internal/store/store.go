// Package store is the storage facade: it owns the in-memory record and
// category collections, persists them as two independently-keyed JSON blobs
// through a kv.Store, and is the only code that mutates them. Consumers get
// copies.
//
// Failure policy: reads that fail fall back to built-in defaults and are
// logged, never surfaced; writes that fail return the error and leave the
// prior state (in memory and on disk) untouched.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jizhang/internal/core"
	"jizhang/internal/kv"
	"jizhang/internal/log"
)

// Persisted blob keys.
const (
	RecordsKey    = "ACCOUNT_RECORDS"
	CategoriesKey = "CUSTOM_CATEGORIES"
)

var (
	ErrBuiltinCategory   = errors.New("built-in categories cannot be deleted")
	ErrDuplicateCategory = errors.New("category id already exists")
)

type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	logger *log.Logger
	now    func() time.Time

	recordsKey    string
	categoriesKey string

	records    []core.Record
	categories core.CategorySet
}

type Option func(*Store)

// WithClock overrides the clock used for id assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKeys overrides the persisted blob keys.
func WithKeys(records, categories string) Option {
	return func(s *Store) {
		s.recordsKey = records
		s.categoriesKey = categories
	}
}

// New constructs a facade over the given kv store. Call Load before reading.
func New(store kv.Store, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		kv:            store,
		logger:        logger.WithComponent(log.ComponentStore),
		now:           time.Now,
		recordsKey:    RecordsKey,
		categoriesKey: CategoriesKey,
		categories:    DefaultCategories(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads both blobs and installs them. The records blob being absent is
// first-run: the sample seed is persisted and used. An absent categories
// blob means the user never customized anything, so the defaults apply
// without being persisted. Any read or decode failure drops both
// collections to defaults; there is no retry and no error to handle.
func (s *Store) Load(ctx context.Context) {
	var (
		recordsRaw, catsRaw []byte
		recordsOK, catsOK   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recordsRaw, recordsOK, err = s.kv.Get(gctx, s.recordsKey)
		return err
	})
	g.Go(func() (err error) {
		catsRaw, catsOK, err = s.kv.Get(gctx, s.categoriesKey)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fallback(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if recordsOK {
		var records []core.Record
		if err := json.Unmarshal(recordsRaw, &records); err != nil {
			s.fallbackLocked(fmt.Errorf("decode records: %w", err))
			return
		}
		s.records = records
	} else {
		seed := sampleRecords(s.now())
		if err := s.persistRecords(ctx, seed); err != nil {
			s.logger.Warn("persisting seed records failed",
				log.FieldOperation, log.OpSeed, log.FieldError, err)
		}
		s.records = seed
		s.logger.Info("seeded sample records",
			log.FieldOperation, log.OpSeed, log.FieldCount, len(seed))
	}

	if catsOK {
		var cats core.CategorySet
		if err := json.Unmarshal(catsRaw, &cats); err != nil {
			s.fallbackLocked(fmt.Errorf("decode categories: %w", err))
			return
		}
		s.categories = normalizeOrigins(cats)
	} else {
		s.categories = DefaultCategories()
	}

	s.logger.Info("loaded store",
		log.FieldOperation, log.OpLoad, log.FieldCount, len(s.records))
}

func (s *Store) fallback(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbackLocked(err)
}

func (s *Store) fallbackLocked(err error) {
	s.logger.Warn("loading data failed, using defaults",
		log.FieldOperation, log.OpLoad, log.FieldError, err)
	s.records = sampleRecords(s.now())
	s.categories = DefaultCategories()
}

// Records returns a copy of the record collection.
func (s *Store) Records() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.records...)
}

// Categories returns a copy of the category lists.
func (s *Store) Categories() core.CategorySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CategorySet{
		Expense: append([]core.Category(nil), s.categories.Expense...),
		Income:  append([]core.Category(nil), s.categories.Income...),
	}
}

// SaveRecord validates r, assigns it a fresh id and appends it. The stored
// record is returned; on persistence failure nothing changes.
func (s *Store) SaveRecord(ctx context.Context, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = core.NewRecordID(s.now())
	next := append(append([]core.Record(nil), s.records...), r)
	if err := s.persistRecords(ctx, next); err != nil {
		s.logger.Error("saving record failed",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return core.Record{}, err
	}
	s.records = next

	s.logger.Info("record saved",
		log.FieldOperation, log.OpSave,
		log.FieldRecordID, r.ID,
		log.FieldRecordType, string(r.Type),
		log.FieldAmount, r.Amount)
	return r, nil
}

// DeleteRecord removes the record with the given id, permanently. Deleting
// an id that is not present persists the unchanged collection and succeeds.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if err := s.persistRecords(ctx, next); err != nil {
		s.logger.Error("deleting record failed",
			log.FieldOperation, log.OpDelete, log.FieldRecordID, id, log.FieldError, err)
		return err
	}
	s.records = next

	s.logger.Info("record deleted",
		log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	return nil
}

// AddCategory appends a custom category to one type's list. A missing id is
// assigned; the origin is forced to custom.
func (s *Store) AddCategory(ctx context.Context, t core.RecordType, c core.Category) (core.Category, error) {
	if !t.Valid() {
		return core.Category{}, core.ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = core.NewCustomCategoryID(s.now())
	}
	c.Origin = core.OriginCustom
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if _, exists := s.categories.Find(t, c.ID); exists {
		return core.Category{}, ErrDuplicateCategory
	}

	next := s.withCategoryList(t, append(append([]core.Category(nil), s.categories.ByType(t)...), c))
	if err := s.persistCategories(ctx, next); err != nil {
		s.logger.Error("adding category failed",
			log.FieldOperation, log.OpSave, log.FieldCategoryID, c.ID, log.FieldError, err)
		return core.Category{}, err
	}
	s.categories = next

	s.logger.Info("category added",
		log.FieldOperation, log.OpSave, log.FieldCategoryID, c.ID)
	return c, nil
}

// DeleteCategory removes a custom category from one type's list. Built-ins
// are refused. Records referencing the removed id are left alone; they
// render with the unknown-category placeholder from then on.
func (s *Store) DeleteCategory(ctx context.Context, t core.RecordType, id string) error {
	if !t.Valid() {
		return core.ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.categories.Find(t, id); ok && !c.Deletable() {
		return ErrBuiltinCategory
	}

	list := s.categories.ByType(t)
	next := make([]core.Category, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			next = append(next, c)
		}
	}
	nextSet := s.withCategoryList(t, next)
	if err := s.persistCategories(ctx, nextSet); err != nil {
		s.logger.Error("deleting category failed",
			log.FieldOperation, log.OpDelete, log.FieldCategoryID, id, log.FieldError, err)
		return err
	}
	s.categories = nextSet

	s.logger.Info("category deleted",
		log.FieldOperation, log.OpDelete, log.FieldCategoryID, id)
	return nil
}

func (s *Store) withCategoryList(t core.RecordType, list []core.Category) core.CategorySet {
	next := core.CategorySet{Expense: s.categories.Expense, Income: s.categories.Income}
	if t == core.Income {
		next.Income = list
	} else {
		next.Expense = list
	}
	return next
}

func (s *Store) persistRecords(ctx context.Context, records []core.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, s.recordsKey, raw); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

func (s *Store) persistCategories(ctx context.Context, cats core.CategorySet) error {
	raw, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := s.kv.Set(ctx, s.categoriesKey, raw); err != nil {
		return fmt.Errorf("persist categories: %w", err)
	}
	return nil
}
