// Package jobs defines the job source port and the wire shape shared by
// every adapter that reads the upstream search payload.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"jobtrend/internal/core"
)

// ErrFetchFailed wraps every failure of a source: network, status, or shape.
var ErrFetchFailed = errors.New("fetch jobs failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source produces one complete record set per call.
type Source interface {
	FetchJobs(ctx context.Context) ([]core.JobRecord, error)
}

// SearchResponse is the upstream payload: { "searches": JobRecord[] }.
type SearchResponse struct {
	Searches []core.JobRecord `json:"searches"`
}

// DecodeSearches reads a search payload. A null "searches" member yields
// an empty set; a payload without it, or that is not a JSON object, fails.
func DecodeSearches(r io.Reader) ([]core.JobRecord, error) {
	var raw map[string]jsoniter.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrFetchFailed, err)
	}
	var resp SearchResponse
	body, ok := raw["searches"]
	if !ok {
		return nil, fmt.Errorf("%w: payload has no searches member", ErrFetchFailed)
	}
	if string(body) == "null" {
		return []core.JobRecord{}, nil
	}
	var wire []wireRecord
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode searches: %v", ErrFetchFailed, err)
	}
	resp.Searches = make([]core.JobRecord, len(wire))
	for i, w := range wire {
		resp.Searches[i] = core.JobRecord{
			Title:        w.Title,
			Organization: w.Organization,
			Location:     w.Location,
			PublishedAt:  string(w.PublishedAt),
		}
	}
	return resp.Searches, nil
}

// wireRecord is a JobRecord as it arrives. The date is the one field the
// upstream gets wrong often enough to be read loosely.
type wireRecord struct {
	Title        string      `json:"websiteTitle"`
	Organization string      `json:"websiteOrganization"`
	Location     string      `json:"websiteLocation"`
	PublishedAt  looseString `json:"websiteDatePublished"`
}

// looseString keeps a JSON string and reads any other value as "", which
// the aggregation then counts as undated.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}

// EncodeSearches writes records in the upstream payload shape.
func EncodeSearches(w io.Writer, records []core.JobRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(SearchResponse{Searches: records})
}
