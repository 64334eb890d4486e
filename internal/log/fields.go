package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldKey        = "key"
	FieldRecordID   = "record_id"
	FieldRecordType = "record_type"
	FieldCategoryID = "category_id"
	FieldAmount     = "amount"
	FieldCount      = "count"
	FieldPath       = "path"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentKV      = "kv"
	ComponentBackend = "backend"
	ComponentExport  = "export"
)

// Standard operation names.
const (
	OpLoad   = "load"
	OpSeed   = "seed"
	OpSave   = "save"
	OpDelete = "delete"
	OpExport = "export"
)
