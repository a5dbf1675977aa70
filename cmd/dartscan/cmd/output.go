package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/corey/dartscan/internal/domain/policy"
	"github.com/corey/dartscan/internal/domain/report"
)

// writeRecords streams records to w, one blank line between blocks. The
// first record of each file renders with its path; the rest of that file's
// records without, so the path prints once per file.
func writeRecords(w io.Writer, records iter.Seq2[report.Record, error], pol *policy.Policy) error {
	if filterOpts.jsonOut {
		return writeJSON(w, records)
	}

	first := true
	lastPath := ""
	for rec, err := range records {
		if err != nil {
			return err
		}
		withPath := first || rec.FilePath() != lastPath
		first = false
		lastPath = rec.FilePath()

		var block string
		if pol.Markdown() {
			block = rec.Markdown(withPath)
		} else {
			block = rec.Text(withPath)
		}
		if _, err := fmt.Fprint(w, block); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON drains the sequence into a JSON array of record maps. JSON
// output is the one mode that materializes the full record set.
func writeJSON(w io.Writer, records iter.Seq2[report.Record, error]) error {
	out := make([]map[string]any, 0)
	for rec, err := range records {
		if err != nil {
			return err
		}
		out = append(out, rec.Map())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
