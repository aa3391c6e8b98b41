package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the full result as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, result *AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
