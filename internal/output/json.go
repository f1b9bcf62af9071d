package output

import (
	"encoding/json"
	"io"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/pipeline"
)

func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FileAnalysis is the JSON shape of one analyzed file.
type FileAnalysis struct {
	File     string                   `json:"file"`
	ReportID string                   `json:"report_id,omitempty"`
	Error    string                   `json:"error,omitempty"`
	Analysis *analyzer.AnalysisResult `json:"analysis,omitempty"`
}

// NewFileAnalysis converts a pipeline result. reportID is empty when the
// result was not persisted.
func NewFileAnalysis(r pipeline.Result, reportID string) FileAnalysis {
	fa := FileAnalysis{File: r.Name, ReportID: reportID}
	if r.Err != nil {
		fa.Error = r.Err.Error()
		return fa
	}
	analysis := r.Analysis
	fa.Analysis = &analysis
	return fa
}
