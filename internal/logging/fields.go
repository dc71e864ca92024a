package logging

// Standardized attribute keys shared across stage runners and service clients.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldStage     = "stage"
	FieldItemKey   = "item_key"
	FieldRunID     = "run_id"
)
