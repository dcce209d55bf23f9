package funnel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "funnelscope/domain/funnel"
)

// CanonicalHeader is the fixed header written by WriteCanonicalCSV.
var CanonicalHeader = []string{
	"Step",
	"Elapsed time",
	"Active users",
	"Completion rate",
	"Abandonments",
	"Abandonment rate",
}

// WriteCanonicalCSV writes rows under CanonicalHeader. Durations are written
// as compound strings and rates with a percent sign so the output reads back
// through Preprocess to the same values. Segment and country are not written.
func WriteCanonicalCSV(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CanonicalHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		rec := []string{
			r.Step,
			FormatDuration(r.ElapsedSeconds),
			strconv.FormatInt(r.ActiveUsers, 10),
			FormatPercentage(r.CompletionRate),
			strconv.FormatInt(r.Abandonments, 10),
			FormatPercentage(r.AbandonmentRate),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CanonicalCSV renders rows as canonical CSV text.
func CanonicalCSV(rows []domain.Row) (string, error) {
	var buf bytes.Buffer
	if err := WriteCanonicalCSV(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatDuration renders seconds as a compound duration such as "1d 5h 30m".
// Zero units are omitted; zero seconds is "0s".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	units := []struct {
		size   int64
		suffix string
	}{
		{secondsPerDay, "d"},
		{secondsPerHour, "h"},
		{secondsPerMinute, "m"},
		{1, "s"},
	}
	var parts []string
	for _, u := range units {
		if n := seconds / u.size; n > 0 {
			parts = append(parts, strconv.FormatInt(n, 10)+u.suffix)
			seconds %= u.size
		}
	}
	return strings.Join(parts, " ")
}

// FormatPercentage renders a percentage with a trailing percent sign.
func FormatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
