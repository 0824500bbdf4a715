package simrc

import (
	"encoding/json"
	"fmt"
)

// RunJSON runs one simulation from a JSON-encoded Params value and returns
// the JSON-encoded Output. It is the call contract used by the WebAssembly
// build, where the host page only speaks strings.
func RunJSON(in string) (string, error) {
	var p Params
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		return "", fmt.Errorf("decode params: %w", err)
	}
	out, err := Simulate(p)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	return string(b), nil
}
