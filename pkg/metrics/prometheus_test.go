package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecorderRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordRun("ok")
	r.RecordRun("error")
	r.RecordError("data_quality")
	r.RecordSnapshot("hit")
	r.RecordLatency("build", 0.002)
	r.RecordRecordsFetched(3100)
	r.RecordLastValue("index", 412.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"btcmag7_pipeline_runs_total",
		"btcmag7_pipeline_errors_total",
		"btcmag7_snapshot_events_total",
		"btcmag7_stage_duration_seconds",
		"btcmag7_source_records_fetched",
		"btcmag7_last_value",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
	for _, f := range families {
		if f.GetName() == "btcmag7_source_records_fetched" {
			if v := f.GetMetric()[0].GetGauge().GetValue(); v != 3100 {
				t.Errorf("records fetched = %v", v)
			}
		}
	}
}
