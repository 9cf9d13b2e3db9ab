// This file defines the JSON envelope emitted by every command in
// --json mode.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonOutput is set by the root --json flag.
var jsonOutput bool

func isJSONOutput() bool { return jsonOutput }

// Response is the envelope every command emits in JSON mode. Agents
// and scripts rely on its shape staying put: ok distinguishes success,
// data carries the command payload, warnings are non-fatal findings,
// meta holds counts and timing.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo is the structured error half of the envelope.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a non-fatal finding attached to an otherwise successful
// response.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
}

// Meta carries result counts and query timing.
type Meta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

func emit(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data interface{}, meta *Meta) {
	emit(Response{OK: true, Data: data, Meta: meta})
}

func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	emit(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

// handleError reports an error in the current output mode. In JSON mode
// it emits an error envelope and returns nil so cobra stays quiet; in
// text mode it returns the error for cobra to print.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		emit(Response{OK: false, Error: &ErrorInfo{
			Code:       code,
			Message:    err.Error(),
			Suggestion: suggestion,
		}})
		return nil
	}
	return err
}

// handleErrorMsg is handleError for errors born as strings.
func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, fmt.Errorf("%s", message), suggestion)
}
