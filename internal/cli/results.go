// This file defines shared JSON result types for consistent CLI output.
package cli

// =============================================================================
// Core Result Types - Used across multiple commands
// =============================================================================

// EntityResult represents an entity in listing results.
// Used by: entities, definition
type EntityResult struct {
	QualifiedID string `json:"qualified_id"`
	Kind        string `json:"kind"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Col         int    `json:"col"`
	Path        string `json:"path,omitempty"`
	SharedPool  bool   `json:"shared_pool,omitempty"`
}

// DefinitionResult represents a resolved definition location.
// Used by: definition
type DefinitionResult struct {
	QualifiedID string `json:"qualified_id"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Col         int    `json:"col"`
	Path        string `json:"path,omitempty"`
}

// UsageResult represents one use site of an entity.
// Used by: usages
type UsageResult struct {
	FromID   string `json:"from_id"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Path     string `json:"path,omitempty"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
	Builtin  bool   `json:"builtin,omitempty"`
}

// =============================================================================
// Diagnostic Types
// =============================================================================

// IssueResult represents one check finding.
// Used by: check
type IssueResult struct {
	Level   string `json:"level"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
}

// =============================================================================
// Stats Types
// =============================================================================

// StatsResult represents index statistics.
// Used by: stats
type StatsResult struct {
	FileCount       int   `json:"file_count"`
	EntityCount     int   `json:"entity_count"`
	ReferenceCount  int   `json:"reference_count"`
	UnresolvedCount int   `json:"unresolved_count"`
	LastBuilt       int64 `json:"last_built,omitempty"`
}
