// Package responseformat encodes readings as JSON, MessagePack, YAML or CBOR
// for the command line and for HTTP responses.
package responseformat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

const (
	JSON    = "json"
	MsgPack = "msgpack"
	YAML    = "yaml"
	CBOR    = "cbor"
)

var contentTypes = map[string]string{
	JSON:    "application/json",
	MsgPack: "application/x-msgpack",
	YAML:    "application/yaml",
	CBOR:    "application/cbor",
}

// Formats returns the supported format names.
func Formats() []string {
	names := make([]string, 0, len(contentTypes))
	for name := range contentTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContentType returns the MIME type for format.
func ContentType(format string) (string, error) {
	ct, ok := contentTypes[format]
	if !ok {
		return "", fmt.Errorf("unknown format %q", format)
	}
	return ct, nil
}

// Formatter handles encoding and writing responses
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Encode writes data to w in the given format. Struct fields are named by
// their json tags in every format except YAML, which uses yaml tags.
func (f *Formatter) Encode(w io.Writer, format string, data any) error {
	switch format {
	case JSON:
		return json.NewEncoder(w).Encode(data)
	case MsgPack:
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json") // Use json tags for MessagePack
		return encoder.Encode(data)
	case YAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	case CBOR:
		return cbor.NewEncoder(w).Encode(data)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteResponse writes the response in the format named by the format query
// parameter. JSON is the default; unknown formats get a 400.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any, headers map[string]string) error {
	// Set any provided headers first
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")

	format := req.URL.Query().Get("format")
	if format == "" {
		format = JSON
	}

	ct, err := ContentType(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}

	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	return f.Encode(w, format, data)
}
