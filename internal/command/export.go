package command

// ExportRecord is one line of a JSONL library export.
// The header line sets GhostExport and carries no record fields.
type ExportRecord struct {
	GhostExport bool `json:"_ghost_export,omitempty"`

	// Header fields
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Record fields
	Library     Kind   `json:"library,omitempty"`
	ID          string `json:"id,omitempty"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ToRecord converts an export line back to a record of kind.
// ok is false when the line would not survive encoding.
func (e *ExportRecord) ToRecord(kind Kind) (Record, bool) {
	if Validate(e.Command, e.Description, e.Category) != nil {
		return Record{}, false
	}
	r := New(e.Command, e.Description, e.Category, kind)
	r.ID = e.ID
	return r, true
}

// ToExportRecord converts a record of kind to an export line.
func ToExportRecord(kind Kind, r Record) *ExportRecord {
	return &ExportRecord{
		Library:     kind,
		ID:          r.ID,
		Command:     r.Command,
		Description: r.Description,
		Category:    r.Category,
	}
}
