package singer

import (
	"encoding/json"
	"fmt"
	"time"
)

// BatchedAtColumn records when the target wrote the record to a batch
// file. It is the only metadata column this target populates itself.
const BatchedAtColumn = "_sdc_batched_at"

// metadataColumns is the Stitch _sdc column set. See
// https://www.stitchdata.com/docs/data-structure/integration-schemas#sdc-columns
var metadataColumns = []string{
	BatchedAtColumn,
	"_sdc_deleted_at",
	"_sdc_extracted_at",
	"_sdc_primary_key",
	"_sdc_received_at",
	"_sdc_sequence",
	"_sdc_table_version",
}

// AddMetadataToSchema extends a stream's JSON Schema with the
// _sdc_batched_at property so records stamped by AddMetadataToRecord
// still validate.
func AddMetadataToSchema(schema json.RawMessage) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("add metadata columns: decode schema: %w", err)
	}

	props, ok := doc["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		doc["properties"] = props
	}
	props[BatchedAtColumn] = map[string]any{
		"type":   []any{"null", "string"},
		"format": "date-time",
	}

	extended, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("add metadata columns: encode schema: %w", err)
	}
	return extended, nil
}

// AddMetadataToRecord stamps the record with the batch timestamp.
// The record is modified in place and returned for convenience.
func AddMetadataToRecord(record map[string]any, batchedAt time.Time) map[string]any {
	record[BatchedAtColumn] = batchedAt.Format(time.RFC3339Nano)
	return record
}

// RemoveMetadata strips every _sdc column from the record. The record is
// modified in place and returned for convenience.
func RemoveMetadata(record map[string]any) map[string]any {
	for _, col := range metadataColumns {
		delete(record, col)
	}
	return record
}
