// Where: internal/infra/render/summary.go
// What: Human-readable summary of a compilation result.
// Why: Reviewers want counts per resource type and the granted actions, not the full
// document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	summaryOnce sync.Once
	summaryTmpl *template.Template
	summaryErr  error
)

// SummaryInput is the data rendered by Summary.
type SummaryInput struct {
	Service     string
	Template    *cfn.Template
	Statements  []cfn.Statement
	RoleUpdated bool
	Warnings    []string
}

type typeCount struct {
	Type  string
	Count int
}

type summaryData struct {
	SummaryInput
	Total int
	Types []typeCount
}

// Summary renders a plain-text report.
func Summary(in SummaryInput) (string, error) {
	tmpl, err := loadSummary()
	if err != nil {
		return "", err
	}
	data := summaryData{SummaryInput: in}
	if in.Template != nil {
		counts := map[string]int{}
		for _, res := range in.Template.Resources {
			if res != nil {
				counts[res.Type]++
			}
		}
		for name, count := range counts {
			data.Types = append(data.Types, typeCount{Type: name, Count: count})
		}
		sort.Slice(data.Types, func(i, j int) bool { return data.Types[i].Type < data.Types[j].Type })
		data.Total = len(in.Template.Resources)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

func loadSummary() (*template.Template, error) {
	summaryOnce.Do(func() {
		summaryTmpl, summaryErr = template.New("summary.tmpl").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/summary.tmpl")
	})
	return summaryTmpl, summaryErr
}
