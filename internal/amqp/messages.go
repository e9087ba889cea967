package amqp

import (
	"encoding/json"
	"time"

	"jobtrend/internal/fetch"
)

// JobsLoadedMessage announces a completed fetch cycle. Counts are zero
// when Failed is set.
type JobsLoadedMessage struct {
	Source    string    `json:"source"`
	Cycle     uint64    `json:"cycle"`
	Records   int       `json:"records"`
	Dropped   int       `json:"dropped"`
	Months    int       `json:"months"`
	Failed    bool      `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

func NewJobsLoadedMessage(s fetch.Summary) *JobsLoadedMessage {
	ts := s.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &JobsLoadedMessage{
		Source:    s.Source,
		Cycle:     s.Cycle,
		Records:   s.Records,
		Dropped:   s.Dropped,
		Months:    s.Months,
		Failed:    s.Failed,
		Timestamp: ts.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *JobsLoadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func JobsLoadedMessageFromJSON(data []byte) (*JobsLoadedMessage, error) {
	var msg JobsLoadedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
