package cli

// Error codes for JSON output
const (
	ErrWorkspaceNotFound  = "WORKSPACE_NOT_FOUND"
	ErrConfigInvalid      = "CONFIG_INVALID"
	ErrFileNotFound       = "FILE_NOT_FOUND"
	ErrEntityNotFound     = "ENTITY_NOT_FOUND"
	ErrDefinitionNotFound = "DEFINITION_NOT_FOUND"
	ErrInvalidPosition    = "INVALID_POSITION"
	ErrInvalidInput       = "INVALID_INPUT"
	ErrIndexFailed        = "INDEX_FAILED"
	ErrIndexLocked        = "INDEX_LOCKED"
	ErrSnapshotFailed     = "SNAPSHOT_FAILED"
	ErrWatchFailed        = "WATCH_FAILED"
	ErrInternalError      = "INTERNAL_ERROR"
)

// Warning codes for JSON output
const (
	WarnParseFailed   = "PARSE_FAILED"
	WarnUnresolvedRef = "UNRESOLVED_REF"
	WarnStaleIndex    = "STALE_INDEX"
)
