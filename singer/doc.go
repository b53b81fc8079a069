// Package singer implements the subset of the Singer protocol a target
// needs: message parsing, record flattening, Stitch-style _sdc metadata
// columns, and JSON Schema validation of records.
//
// A tap emits one JSON message per line on stdout. The message types a
// target consumes are SCHEMA, RECORD, STATE and ACTIVATE_VERSION.
package singer
