package singer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantType    MessageType
		errContains string
	}{
		{
			name:     "record",
			line:     `{"type":"RECORD","stream":"users","record":{"id":1,"name":"ada"}}`,
			wantType: MessageTypeRecord,
		},
		{
			name:     "schema",
			line:     `{"type":"SCHEMA","stream":"users","schema":{"type":"object"},"key_properties":["id"]}`,
			wantType: MessageTypeSchema,
		},
		{
			name:     "state",
			line:     `{"type":"STATE","value":{"bookmarks":{"users":{"id":42}}}}`,
			wantType: MessageTypeState,
		},
		{
			name:     "activate version",
			line:     `{"type":"ACTIVATE_VERSION","stream":"users","version":1}`,
			wantType: MessageTypeActivateVersion,
		},
		{
			name:     "unknown type passes through",
			line:     `{"type":"BATCH","stream":"users"}`,
			wantType: MessageType("BATCH"),
		},
		{
			name:        "not json",
			line:        `RECORD users`,
			errContains: "parse message",
		},
		{
			name:        "missing type",
			line:        `{"stream":"users"}`,
			errContains: "'type'",
		},
		{
			name:        "record without stream",
			line:        `{"type":"RECORD","record":{"id":1}}`,
			errContains: "'stream'",
		},
		{
			name:        "record without record",
			line:        `{"type":"RECORD","stream":"users"}`,
			errContains: "'record'",
		},
		{
			name:        "schema without schema",
			line:        `{"type":"SCHEMA","stream":"users"}`,
			errContains: "'schema'",
		},
		{
			name:        "state without value",
			line:        `{"type":"STATE"}`,
			errContains: "'value'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.line))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, msg.Type)
		})
	}
}

func TestParseMessage_PreservesNumberPrecision(t *testing.T) {
	msg, err := ParseMessage([]byte(
		`{"type":"RECORD","stream":"orders","record":{"amount":0.10000000000000001,"qty":3}}`))
	require.NoError(t, err)

	amount, ok := msg.Record["amount"].(json.Number)
	require.True(t, ok, "numbers must decode as json.Number")
	assert.Equal(t, "0.10000000000000001", amount.String())

	qty, ok := msg.Record["qty"].(json.Number)
	require.True(t, ok)
	assert.Equal(t, "3", qty.String())
}

func TestParseMessage_KeyProperties(t *testing.T) {
	msg, err := ParseMessage([]byte(
		`{"type":"SCHEMA","stream":"users","schema":{"type":"object"},"key_properties":["id","tenant"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "tenant"}, msg.KeyProperties)
}
