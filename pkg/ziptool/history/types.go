package history

import "time"

// Operation identifies which command produced an entry.
type Operation string

// Recorded operations.
const (
	OpZip       Operation = "zip"
	OpRenameZip Operation = "rename-zip"
)

// Entry is one recorded archive run.
type Entry struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Operation    Operation     `json:"operation"`
	Root         string        `json:"root"`
	Destination  string        `json:"destination"`
	Files        int           `json:"files"`
	Bytes        int64         `json:"bytes"`
	WindowsStyle bool          `json:"windows_style"`
	Duration     time.Duration `json:"duration"`
}
