//go:build js && wasm

// Command simrc-wasm exposes the RC simulator to the browser via
// WebAssembly. After loading, it registers a global JavaScript function:
//
//	simulateRC(jsonString) -> jsonString
//
// The input and output are JSON-encoded Params and Output respectively,
// matching the contract of the CLI and the HTTP /simulate endpoint.
package main

import (
	"syscall/js"

	"github.com/nazeern/simrc"
)

func main() {
	js.Global().Set("simulateRC", js.FuncOf(simulateRC))
	select {} // keep the WASM module alive until the page is closed
}

func simulateRC(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := simrc.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
