package diagnostics

import (
	"encoding/json"
)

// jsonLocation is the {file, line, column} shape from §6.6.
type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// jsonDiagnostic is one entry of the "diagnostics" array in §6.6.
type jsonDiagnostic struct {
	Code     string         `json:"code"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Location jsonLocation   `json:"location"`
	Phase    string         `json:"phase"`
	Hint     string         `json:"hint,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Timing is the optional "timing" block of §6.6, filled in by
// internal/session.
type Timing struct {
	ElapsedHuman string `json:"elapsed"`
	ElapsedNanos int64  `json:"elapsedNanos"`
}

// Encoded is the top-level JSON document described by §6.6.
type Encoded struct {
	Success     bool             `json:"success"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Timing      *Timing          `json:"timing,omitempty"`
	Output      string           `json:"output,omitempty"`
}

func toJSONDiagnostic(d Diagnostic) jsonDiagnostic {
	var data map[string]any
	if len(d.Params) > 0 {
		data = make(map[string]any, len(d.Params))
		for k, v := range d.Params {
			data[k] = v
		}
	}
	return jsonDiagnostic{
		Code:     d.Code,
		Severity: string(d.Severity),
		Message:  d.Message,
		Location: jsonLocation{File: d.Pos.File, Line: d.Pos.Line, Column: d.Pos.Column},
		Phase:    string(d.Phase),
		Hint:     d.Hint,
		Data:     data,
	}
}

// Encode builds the §6.6 JSON document for a completed (or failed)
// compilation. output is the generated code, empty on failure.
func Encode(c *Collector, output string, timing *Timing) Encoded {
	diags := c.SortByLocation()
	out := make([]jsonDiagnostic, len(diags))
	for i, d := range diags {
		out[i] = toJSONDiagnostic(d)
	}
	return Encoded{
		Success:     !c.HasErrors(),
		Diagnostics: out,
		Timing:      timing,
		Output:      output,
	}
}

// MarshalIndentedJSON renders the Encoded document pretty-printed with
// two-space indentation.
func (e Encoded) MarshalIndentedJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
