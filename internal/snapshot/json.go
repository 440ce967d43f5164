//nolint:tagliatelle
package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/farcloser/primordium/fault"
)

// document is the shape of `dart analyze --format=json` output.
type document struct {
	Version     int          `json:"version"`
	Diagnostics []diagnostic `json:"diagnostics"`
}

type diagnostic struct {
	Code           string   `json:"code"`
	Severity       string   `json:"severity"`
	Type           string   `json:"type"`
	Location       location `json:"location"`
	ProblemMessage string   `json:"problemMessage"`
}

type location struct {
	File  string `json:"file"`
	Range struct {
		Start position `json:"start"`
		End   position `json:"end"`
	} `json:"range"`
}

type position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// DecodeJSON converts a JSON snapshot into records shaped like machine format ones.
// Codes are upper-cased to match the machine format spelling.
func DecodeJSON(data []byte) ([]Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	records := make([]Record, 0, len(doc.Diagnostics))

	for _, diag := range doc.Diagnostics {
		start, end := diag.Location.Range.Start, diag.Location.Range.End

		records = append(records, Record{
			Severity: diag.Severity,
			Kind:     diag.Type,
			Code:     strings.ToUpper(diag.Code),
			Path:     diag.Location.File,
			Line:     strconv.Itoa(start.Line),
			Column:   strconv.Itoa(start.Column),
			Length:   strconv.Itoa(max(end.Offset-start.Offset, 0)),
			Message:  diag.ProblemMessage,
		})
	}

	return records, nil
}
