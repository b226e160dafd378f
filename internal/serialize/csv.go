package serialize

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dgallion1/sectionize/internal/section"
)

// sectionColumns is the fixed CSV column order for section records.
var sectionColumns = []string{
	"section_number", "level", "parent_number", "ancestry", "section_title", "content",
}

// WriteSectionsCSV writes section records as CSV with a fixed column
// order. Ancestry is encoded as a JSON array so it survives the comma.
func WriteSectionsCSV(w io.Writer, records []section.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sectionColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		ancestry, err := json.Marshal(emptyIfNil(rec.Ancestry))
		if err != nil {
			return fmt.Errorf("marshal ancestry for %q: %w", rec.Number, err)
		}
		row := []string{
			rec.Number,
			strconv.Itoa(rec.Level),
			rec.Parent,
			string(ancestry),
			rec.Title,
			rec.Content,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %q: %w", rec.Number, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
