package forensic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/ruleconfig"
)

const systemPrompt = "You're a forensic accountant explaining findings"

// Result holds one section's findings
type Result struct {
	Section  Section
	Findings []string
}

// Report is the combined detector output for one stock
type Report struct {
	Stock   string
	Year    contracts.FiscalYear
	Results []Result
}

// Findings maps section keys to findings for the narration prompt
func (r Report) Findings() map[string][]string {
	out := make(map[string][]string, len(r.Results))
	for _, res := range r.Results {
		out[res.Section.Key] = res.Findings
	}
	return out
}

// Engine runs the detectors and narrates the result
type Engine struct {
	rules ruleconfig.Forensic
	gen   contracts.TextGenerator
	style render.Styler
}

// NewEngine creates a forensic engine
func NewEngine(rules ruleconfig.Forensic, gen contracts.TextGenerator, style render.Styler) *Engine {
	return &Engine{rules: rules, gen: gen, style: style}
}

// Inspect runs every detector without narration
func (e *Engine) Inspect(stock *contracts.Stock) Report {
	report := Report{Stock: stock.Name}
	if latest, ok := stock.LatestYear(); ok {
		report.Year = latest
	}
	for _, s := range Sections {
		report.Results = append(report.Results, Result{Section: s, Findings: s.Detect(stock, e.rules)})
	}
	return report
}

// Analyze renders the sectioned forensic report with an expert interpretation
func (e *Engine) Analyze(ctx context.Context, stock *contracts.Stock) string {
	report := e.Inspect(stock)

	year := string(report.Year)
	if year == "" {
		year = "N/A"
	}

	out := []string{
		e.style.Bold("🔍 FORENSIC ANALYSIS"),
		fmt.Sprintf("Company: %s | FY: %s", report.Stock, year),
	}
	for _, res := range report.Results {
		out = append(out, "\n"+e.style.Bold(res.Section.Title))
		out = append(out, render.Bullets(res.Findings)...)
	}

	out = append(out,
		"\n"+e.style.Bold("📝 Expert Interpretation:"),
		CleanResponse(e.gen.Generate(ctx, systemPrompt, interpretationPrompt(report))),
	)
	return strings.Join(out, "\n")
}

func interpretationPrompt(report Report) string {
	findings, err := json.Marshal(report.Findings())
	if err != nil {
		findings = []byte(fmt.Sprint(report.Findings()))
	}
	return fmt.Sprintf("Explain these forensic findings for %s in under 300 words: %s\n"+
		"Focus on:\n1. Most critical red flags\n2. Investor implications\n3. Recommended next steps",
		report.Stock, findings)
}

var responseCleaner = strings.NewReplacer("{", "", "}", "", `"`, "", `\n`, "\n")

// CleanResponse strips braces and quotes and expands escaped newlines
func CleanResponse(text string) string {
	return responseCleaner.Replace(text)
}
