// Package download runs the transfer queue: a fixed pool of workers
// draining an unbounded FIFO of jobs, with automatic retries for transient
// failures.
package download

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lidanthedev/Mirrarr/internal/source"
)

// Status tracks a job's lifecycle state.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
	StatusRetrying    Status = "retrying"
)

// Job describes one transfer to perform.
type Job struct {
	ID             string            // assigned on Submit when empty
	URL            string            // direct download URL
	Source         string            // originating source name
	Options        source.Options    // per-source headers and proxy
	CustomFilename string            // user-chosen name applied after the transfer
	Metadata       map[string]string // free-form, carried through to the record
}

// Record is a point-in-time snapshot of a job's state. Snapshots are
// copies; mutating one never affects the queue.
type Record struct {
	ID             string            `json:"id"`
	URL            string            `json:"url"`
	Source         string            `json:"source,omitempty"`
	Status         Status            `json:"status"`
	Progress       float64           `json:"progress"` // 0.0 - 100.0
	SpeedBPS       int64             `json:"speed_bps"`
	ETASeconds     int               `json:"eta_seconds"`
	BytesDone      int64             `json:"bytes_done"`
	TotalBytes     int64             `json:"total_bytes"`
	Speed          string            `json:"speed"` // "3.4 MB/s"
	ETA            string            `json:"eta"`   // "2m5s"
	Size           string            `json:"size"`  // "8.1 GB"
	Filename       string            `json:"filename,omitempty"`
	CustomFilename string            `json:"custom_filename,omitempty"`
	Path           string            `json:"path,omitempty"`
	Error          string            `json:"error,omitempty"`
	Attempt        int               `json:"attempt"`
	NextRetryAt    *time.Time        `json:"next_retry_at,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	AddedAt        time.Time         `json:"added_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// humanizeRecord fills the display fields from the numeric ones.
func humanizeRecord(r *Record) {
	if r.TotalBytes > 0 {
		r.Size = humanize.Bytes(uint64(r.TotalBytes))
	}
	if r.SpeedBPS > 0 {
		r.Speed = humanize.Bytes(uint64(r.SpeedBPS)) + "/s"
	}
	if r.ETASeconds > 0 {
		r.ETA = (time.Duration(r.ETASeconds) * time.Second).String()
	}
}

// String implements fmt.Stringer for log output.
func (r *Record) String() string {
	return fmt.Sprintf("%s [%s] %.1f%%", r.ID, r.Status, r.Progress)
}
