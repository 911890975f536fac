package model //import "github.com/bookverse/bookverse/model"

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
)

const (
	// JobTypeCoverSweep removes an orphaned cover file after a book delete.
	JobTypeCoverSweep = "COVER_SWEEP"
	// JobTypeRecentPrune trims a user's recently-read history.
	JobTypeRecentPrune = "RECENT_PRUNE"
)

type Job struct {
	UserID int32
	Path   string
	Type   string
	Status string
}
