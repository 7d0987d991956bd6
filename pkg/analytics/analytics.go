package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coneno/logger"
)

// Sink receives fire-and-forget analytics events. Implementations must not
// block the caller and must swallow their own failures.
type Sink interface {
	SendEvent(category, label, title, value string)
}

type Event struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Title    string `json:"title"`
	Value    string `json:"value"`
}

type NopSink struct{}

func (NopSink) SendEvent(category, label, title, value string) {}

// LogSink writes events to the debug log.
type LogSink struct{}

func (LogSink) SendEvent(category, label, title, value string) {
	logger.Debug.Printf("analytics event: category=%s label=%s title=%s value=%s", category, label, title, value)
}

// CollectorSink posts events to a measurement endpoint in the background.
type CollectorSink struct {
	collectURL string
	trackingID string
	client     *http.Client
}

func NewCollectorSink(collectURL string, trackingID string) *CollectorSink {
	return &CollectorSink{
		collectURL: collectURL,
		trackingID: trackingID,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *CollectorSink) SendEvent(category, label, title, value string) {
	ev := Event{Category: category, Label: label, Title: title, Value: value}
	go s.post(ev)
}

func (s *CollectorSink) post(ev Event) {
	body, err := json.Marshal(struct {
		TrackingID string `json:"tid"`
		Event
	}{TrackingID: s.trackingID, Event: ev})
	if err != nil {
		return
	}
	resp, err := s.client.Post(s.collectURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Debug.Printf("analytics event dropped: %v", err)
		return
	}
	resp.Body.Close()
}

// Recorder keeps events in memory; used by tests and local debugging.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) SendEvent(category, label, title, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Category: category, Label: label, Title: title, Value: value})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
