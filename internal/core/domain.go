package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Expense RecordType = "expense"
	Income  RecordType = "income"
)

const (
	OriginBuiltin CategoryOrigin = "builtin"
	OriginCustom  CategoryOrigin = "custom"
)

// UnknownCategoryLabel and UnknownCategoryIcon are the display fallback for a
// record whose category id no longer resolves. Dangling references are legal:
// deleting a category does not touch the records pointing at it.
const (
	UnknownCategoryLabel = "未知分类"
	UnknownCategoryIcon  = "help-circle"
)

type (
	RecordType string

	CategoryOrigin string

	// Record is one income or expense transaction. The id is assigned by the
	// storage facade at save time and is stable for the record's lifetime.
	Record struct {
		ID       string     `json:"id"`
		Type     RecordType `json:"type"`
		Amount   float64    `json:"amount"`
		Category string     `json:"category"`
		Note     string     `json:"note"`
		Date     time.Time  `json:"date"`
	}

	// Category is a label+icon pair scoped to one record type. Origin decides
	// deletability; built-ins cannot be removed. Blobs written before the
	// origin field existed carry only the custom_ id prefix, which the storage
	// facade normalizes into an origin on load.
	Category struct {
		ID     string         `json:"id"`
		Label  string         `json:"label"`
		Icon   string         `json:"icon"`
		Origin CategoryOrigin `json:"origin,omitempty"`
	}

	// CategorySet holds the two per-type category lists, in the shape the
	// categories blob is persisted in.
	CategorySet struct {
		Expense []Category `json:"expense"`
		Income  []Category `json:"income"`
	}
)

var (
	ErrInvalidType   = errors.New("invalid record type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrEmptyLabel    = errors.New("empty category label")
	ErrEmptyID       = errors.New("empty category id")
)

func (t RecordType) Valid() bool {
	return t == Expense || t == Income
}

func (r Record) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if math.IsNaN(r.Amount) || r.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Label) == "" {
		return ErrEmptyLabel
	}
	return nil
}

// Deletable reports whether the user may remove this category.
func (c Category) Deletable() bool {
	return c.Origin == OriginCustom
}

// ByType returns the list for the given record type.
func (s CategorySet) ByType(t RecordType) []Category {
	if t == Income {
		return s.Income
	}
	return s.Expense
}

// Find looks up a category by id within one type's list.
func (s CategorySet) Find(t RecordType, id string) (Category, bool) {
	for _, c := range s.ByType(t) {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Resolve is Find with the unknown-category placeholder instead of a miss.
func (s CategorySet) Resolve(t RecordType, id string) Category {
	if c, ok := s.Find(t, id); ok {
		return c
	}
	return Category{ID: id, Label: UnknownCategoryLabel, Icon: UnknownCategoryIcon}
}

// NewRecordID derives a record id from a creation instant. Ids are opaque to
// everything but this function; the millisecond base keeps them monotonic-ish.
func NewRecordID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// NewCustomCategoryID derives a user-created category id. The custom_ prefix
// is kept for compatibility with blobs that predate the origin field.
func NewCustomCategoryID(now time.Time) string {
	return "custom_" + strconv.FormatInt(now.UnixMilli(), 10)
}
