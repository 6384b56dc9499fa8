package log

// Canonical field names for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldEvent     = "event"

	FieldKind   = "kind"
	FieldShape  = "shape_id"
	FieldState  = "state_id"
	FieldFormat = "format"
	FieldPath   = "path"
	FieldURL    = "url"

	FieldMethod   = "method"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldRemote   = "remote"
)
