package google

import (
	"fmt"
	"strings"

	"jobtrend/internal/core"
)

var headerAliases = map[string]string{
	"title":        "title",
	"job":          "title",
	"organization": "organization",
	"organisation": "organization",
	"company":      "organization",
	"location":     "location",
	"published":    "published",
	"date":         "published",
	"published at": "published",
}

// parseRows converts a values matrix, header first, into records. Blank
// rows are skipped; a header without a Title or Published column fails.
func parseRows(values [][]interface{}) ([]core.JobRecord, error) {
	if len(values) == 0 {
		return []core.JobRecord{}, nil
	}
	cols := map[string]int{}
	for i, h := range toStrings(values[0]) {
		if name, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	var missing []string
	for _, need := range []string{"title", "published"} {
		if _, ok := cols[need]; !ok {
			missing = append(missing, need)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected sheet header: missing %s; got headers=%v", strings.Join(missing, ","), toStrings(values[0]))
	}

	out := make([]core.JobRecord, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := toStrings(raw)
		r := core.JobRecord{
			Title:        safeGet(row, cols, "title"),
			Organization: safeGet(row, cols, "organization"),
			Location:     safeGet(row, cols, "location"),
			PublishedAt:  safeGet(row, cols, "published"),
		}
		if r == (core.JobRecord{}) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
