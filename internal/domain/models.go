package domain

import "time"

// Document is the downloaded PDF. It only lives for the duration of page
// discovery.
type Document struct {
	SourceURL string
	FilePath  string
}

// Page is a 1-based page ordinal paired with its extracted text
type Page struct {
	Number int
	Text   string
}

// PageOutcome is the terminal state of one page translation
type PageOutcome struct {
	PageNumber int
	Text       string
	Err        error
}

// Succeeded reports whether the translation call completed without error.
func (o PageOutcome) Succeeded() bool {
	return o.Err == nil
}

// EventType represents the type of stream event
type EventType string

const (
	EventDownloadStart  EventType = "download_start"
	EventDownloadDone   EventType = "download_done"
	EventDispatchStart  EventType = "dispatch_start"
	EventPageQueued     EventType = "page_queued"
	EventDispatchDone   EventType = "dispatch_done" // Payload: number of queued pages
	EventCollectStart   EventType = "collect_start"
	EventPageTranslated EventType = "page_translated"
	EventPageFailed     EventType = "page_failed"
	EventComplete       EventType = "complete" // Payload: aggregate text
)

// StreamEvent represents an event emitted during processing
type StreamEvent struct {
	Type       EventType   `json:"type"`
	PageNumber int         `json:"page_number,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// RunStats summarises a finished run. Failed pages are counted but never
// reported in the aggregate text.
type RunStats struct {
	TotalTime       time.Duration
	PagesQueued     int
	SuccessfulPages int
	FailedPages     int
}
