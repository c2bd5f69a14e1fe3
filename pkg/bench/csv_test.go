package bench

import (
	"strings"
	"testing"
	"time"
)

func TestWriteRecordsCSV(t *testing.T) {
	recs := []Record{
		{RunID: "ab12cd34", Strategy: "default", N: 5, Instance: 0, K: 3,
			Elapsed: 1500 * time.Millisecond, Status: StatusSolved},
		{RunID: "ab12cd34", Strategy: "firstfail", N: 10, Instance: 1,
			Elapsed: 300 * time.Second, Status: StatusTimeout},
	}

	var sb strings.Builder
	if err := WriteRecordsCSV(&sb, recs); err != nil {
		t.Fatalf("WriteRecordsCSV() error: %v", err)
	}

	want := "schema_version,run_id,strategy,n,instance,k,elapsed_seconds,status\n" +
		"1,ab12cd34,default,5,0,3,1.500,solved\n" +
		"1,ab12cd34,firstfail,10,1,,300.000,timeout\n"
	if sb.String() != want {
		t.Errorf("WriteRecordsCSV() =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestWriteSummariesCSV(t *testing.T) {
	sums := []Summary{
		{Strategy: "default", N: 5, Attempts: 10, Solved: 9, SuccessRate: 0.9,
			MeanS: 1.5, MedianS: 1.25, StddevS: 0.5, MinS: 1, MaxS: 3},
	}

	var sb strings.Builder
	if err := WriteSummariesCSV(&sb, sums); err != nil {
		t.Fatalf("WriteSummariesCSV() error: %v", err)
	}

	want := "strategy,n,attempts,solved,success_rate,mean_s,median_s,stddev_s,min_s,max_s\n" +
		"default,5,10,9,0.900,1.500,1.250,0.500,1.000,3.000\n"
	if sb.String() != want {
		t.Errorf("WriteSummariesCSV() =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestWriteRecordsCSVEmptyStillWritesHeader(t *testing.T) {
	var sb strings.Builder
	if err := WriteRecordsCSV(&sb, nil); err != nil {
		t.Fatalf("WriteRecordsCSV() error: %v", err)
	}
	want := "schema_version,run_id,strategy,n,instance,k,elapsed_seconds,status\n"
	if sb.String() != want {
		t.Errorf("WriteRecordsCSV() = %q, want header only", sb.String())
	}
}
