package responseformat

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

type reading struct {
	Pressure float64 `json:"pressure" yaml:"pressure"`
	Tendency string  `json:"tendency" yaml:"tendency"`
}

var sample = reading{Pressure: 1013.2, Tendency: "Rising"}

func TestEncode(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{JSON, json.Unmarshal},
		{MsgPack, msgpack.Unmarshal},
		{YAML, yaml.Unmarshal},
		{CBOR, cbor.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, f.Encode(&buf, tt.format, sample))

			var got map[string]any
			require.NoError(t, tt.decode(buf.Bytes(), &got))
			assert.Equal(t, "Rising", got["tendency"])
			assert.EqualValues(t, 1013.2, got["pressure"])
		})
	}
}

func TestEncodeJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter().Encode(&buf, JSON, sample))
	assert.JSONEq(t, `{"pressure":1013.2,"tendency":"Rising"}`, buf.String())
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewFormatter().Encode(&buf, "xml", sample))
}

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		query       string
		status      int
		contentType string
	}{
		{"", 200, "application/json"},
		{"?format=msgpack", 200, "application/x-msgpack"},
		{"?format=yaml", 200, "application/yaml"},
		{"?format=cbor", 200, "application/cbor"},
		{"?format=xml", 400, "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/snapshot"+tt.query, nil)
			rec := httptest.NewRecorder()

			_ = NewFormatter().WriteResponse(rec, req, 200, sample, map[string]string{"X-Request-ID": "abc"})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"cbor", "json", "msgpack", "yaml"}, Formats())
}
