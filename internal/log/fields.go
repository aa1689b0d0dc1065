package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldSeasonID   = "season_id"
	FieldTeamID     = "team_id"
	FieldEntryID    = "entry_id"
	FieldEntryKind  = "entry_kind"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldRowCount   = "row_count"
	FieldSheetRef   = "sheet_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentReport   = "report"
	ComponentImporter = "importer"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentMirror   = "mirror"
)
