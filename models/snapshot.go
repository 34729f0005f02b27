package models

// Snapshot is the full-state backup artifact. Field names match the file
// format the original client exported, so old backup files still import.
type Snapshot struct {
	Ledger     Ledger   `json:"dailyData"`
	Profile    *Profile `json:"userProfile,omitempty"`
	ExportedAt string   `json:"exportDate"`
}
