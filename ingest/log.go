package ingest

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

// Execution types recorded in ingestion log entries.
const (
	ExecutionStream   = "stream"
	ExecutionBackfill = "backfill"
)

// RecordOutcome is the per-record line item inside an ingestion log entry.
type RecordOutcome struct {
	Key        string       `json:"key"`
	Outcome    core.Outcome `json:"outcome"`
	Reason     string       `json:"reason,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms"`
}

// IngestionLogEntry is the audit record for one ingestion invocation.
// One entry covers the whole invocation regardless of how many records
// it touched; entries are append-only and never mutated after writing.
type IngestionLogEntry struct {
	BatchID       string          `json:"batch_id"`
	ExecutionType string          `json:"execution_type"`
	Source        string          `json:"source"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	Skipped       int             `json:"skipped"`
	Records       []RecordOutcome `json:"records"`
}

// NewLogEntry starts an entry with a fresh batch id.
func NewLogEntry(executionType, source string) *IngestionLogEntry {
	return &IngestionLogEntry{
		BatchID:       uuid.NewString(),
		ExecutionType: executionType,
		Source:        source,
		StartedAt:     time.Now().UTC(),
	}
}

// Record appends one per-record outcome and updates the aggregates.
func (e *IngestionLogEntry) Record(key string, outcome core.Outcome, reason string, err error, elapsed time.Duration) {
	record := RecordOutcome{
		Key:        key,
		Outcome:    outcome,
		Reason:     reason,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		record.Error = err.Error()
	}

	switch outcome {
	case core.OutcomeSuccess:
		e.Succeeded++
	case core.OutcomeSkipped:
		e.Skipped++
	default:
		e.Failed++
	}
	e.Records = append(e.Records, record)
}

// ObjectPath returns the sink path for this entry, partitioned by start
// date so operators can list one day's invocations cheaply.
func (e *IngestionLogEntry) ObjectPath() string {
	return path.Join("ingestion", e.StartedAt.Format("2006-01-02"), e.BatchID+".json")
}

// Write stamps the finish time and persists the entry to the sink.
func (e *IngestionLogEntry) Write(ctx context.Context, sink storage.AuditSink) error {
	e.FinishedAt = time.Now().UTC()
	body, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return sink.WriteObject(ctx, e.ObjectPath(), body)
}
