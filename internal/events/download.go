package events

// Entity types
const (
	EntityDownload = "download"
	EntityMovie    = "movie"
	EntitySeries   = "series"
)

// Event type constants
const (
	EventDownloadQueued     = "download.queued"
	EventDownloadStarted    = "download.started"
	EventDownloadProgressed = "download.progressed"
	EventDownloadRetrying   = "download.retrying"
	EventDownloadCompleted  = "download.completed"
	EventDownloadFailed     = "download.failed"
)

// DownloadQueued is emitted when a job enters the queue.
type DownloadQueued struct {
	BaseEvent
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Source   string `json:"source,omitempty"`
}

// DownloadStarted is emitted when a worker picks a job up.
type DownloadStarted struct {
	BaseEvent
	Attempt int `json:"attempt"`
}

// DownloadProgressed is emitted periodically with transfer progress.
type DownloadProgressed struct {
	BaseEvent
	Progress float64 `json:"progress"`  // 0.0 - 100.0
	Speed    int64   `json:"speed_bps"` // bytes per second
	ETA      int     `json:"eta_seconds"`
	Size     int64   `json:"size_bytes"`
}

// DownloadRetrying is emitted when a retryable failure schedules another
// attempt.
type DownloadRetrying struct {
	BaseEvent
	Attempt      int    `json:"attempt"`
	DelaySeconds int    `json:"delay_seconds"`
	Reason       string `json:"reason"`
}

// DownloadCompleted is emitted when a job finishes, after any rename.
type DownloadCompleted struct {
	BaseEvent
	Path string `json:"path"`
}

// DownloadFailed is emitted when a job fails for good.
type DownloadFailed struct {
	BaseEvent
	Reason  string `json:"reason"`
	Attempt int    `json:"attempt"`
}
