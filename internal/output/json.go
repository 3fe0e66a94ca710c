package output

import (
	"bytes"
	"encoding/json"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/vmihailenco/msgpack/v5"
)

// JSONFormatter writes the full result, ledger included
type JSONFormatter struct {
	Indent bool
}

func (JSONFormatter) Name() string { return "json" }

func (f JSONFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(res, "", "  ")
	}
	return json.Marshal(res)
}

// MsgpackFormatter writes the full result as MessagePack keyed by the JSON field names
type MsgpackFormatter struct{}

func (MsgpackFormatter) Name() string { return "msgpack" }

func (MsgpackFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	return MarshalMsgpack(res)
}

// MarshalMsgpack encodes any value using JSON tags for field names
func MarshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes data produced by MarshalMsgpack
func UnmarshalMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
