package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SchemaVersion tags every record row. Bump it when the column set or the
// meaning of a column changes.
const SchemaVersion = 1

var recordHeader = []string{
	"schema_version", "run_id", "strategy", "n", "instance", "k", "elapsed_seconds", "status",
}

var summaryHeader = []string{
	"strategy", "n", "attempts", "solved", "success_rate",
	"mean_s", "median_s", "stddev_s", "min_s", "max_s",
}

// WriteRecordsCSV writes one row per record. The k column is empty unless
// the run solved.
func WriteRecordsCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		k := ""
		if rec.Status == StatusSolved {
			k = strconv.Itoa(rec.K)
		}
		row := []string{
			strconv.Itoa(SchemaVersion),
			rec.RunID,
			rec.Strategy,
			strconv.Itoa(rec.N),
			strconv.Itoa(rec.Instance),
			k,
			f3(rec.Elapsed.Seconds()),
			string(rec.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummariesCSV writes one row per (strategy, n) summary.
func WriteSummariesCSV(w io.Writer, sums []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range sums {
		row := []string{
			s.Strategy,
			strconv.Itoa(s.N),
			strconv.Itoa(s.Attempts),
			strconv.Itoa(s.Solved),
			f3(s.SuccessRate),
			f3(s.MeanS),
			f3(s.MedianS),
			f3(s.StddevS),
			f3(s.MinS),
			f3(s.MaxS),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// f3 formats a float with three decimals, the precision every numeric CSV
// column uses.
func f3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
