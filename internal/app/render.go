package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vidfriends/formatlist/internal/formats"
	"github.com/vidfriends/formatlist/internal/listing"
)

func writeTable(w io.Writer, result listing.Result) error {
	if result.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", result.Title); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(formats.Columns, "\t"))
	for _, row := range result.Listing.Rows {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	return tw.Flush()
}

func writeFailures(w io.Writer, failures []formats.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "skipped format %q (%s): %v\n", f.FormatID, f.Kind, f.Err)
	}
}

type jsonListing struct {
	ID      string        `json:"id,omitempty"`
	Title   string        `json:"title"`
	URL     string        `json:"url"`
	Columns []string      `json:"columns"`
	Rows    []formats.Row `json:"rows"`
	Stats   formats.Stats `json:"stats"`
}

func writeJSON(w io.Writer, result listing.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonListing{
		ID:      result.ID,
		Title:   result.Title,
		URL:     result.URL,
		Columns: formats.Columns,
		Rows:    result.Listing.Rows,
		Stats:   result.Listing.Stats,
	})
}
