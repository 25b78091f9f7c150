package telemetry

import (
	"errors"
	"testing"
	"time"
)

func TestRecordStageCountsFailures(t *testing.T) {
	tel := New()
	tel.RecordStage("cross_verify", 100*time.Millisecond, nil)
	tel.RecordStage("cross_verify", 200*time.Millisecond, errors.New("boom"))

	if got := tel.StageExecutions["cross_verify"]; got != 2 {
		t.Fatalf("executions = %d, want 2", got)
	}
	if got := tel.StageFailures["cross_verify"]; got != 1 {
		t.Fatalf("failures = %d, want 1", got)
	}

	snap := tel.Snapshot()
	stages, ok := snap["stages"].(map[string]map[string]interface{})
	if !ok {
		t.Fatalf("unexpected snapshot shape %T", snap["stages"])
	}
	if stages["cross_verify"]["executions"].(int64) != 2 {
		t.Fatalf("snapshot executions = %v", stages["cross_verify"]["executions"])
	}
}

func TestRecordRunAccumulates(t *testing.T) {
	tel := New()
	tel.RecordRun("topic a", time.Second)
	tel.RecordRun("topic b", time.Second)
	if tel.TotalRuns != 2 {
		t.Fatalf("total runs = %d, want 2", tel.TotalRuns)
	}
}
