package audit

import (
	"encoding/csv"
	"io"
	"time"
)

// WriteCSV serialises timeline rows as CSV.
func WriteCSV(w io.Writer, rows []TimelineRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"At", "Actor", "Role", "Method", "Path", "Reason"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.At.UTC().Format(time.RFC3339),
			row.ActorID,
			row.Role,
			row.Method,
			row.Path,
			row.Reason,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
