package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/3-lines-studio/vitebridge/internal/core"
)

type reportOutput interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Writer() io.Writer
	ErrWriter() io.Writer
}

// BuildStep is one unit of work inside a pass, e.g. the client bundle.
type BuildStep struct {
	Pass     string
	Name     string
	Started  time.Time
	Duration time.Duration
	Success  bool
	Error    string
}

// BuildIssue is an error or warning attributed to a pass.
type BuildIssue struct {
	Pass    string
	Message string
	Details []string
}

// BuildReport collects what happened during `vitebridge build` and prints
// it once at the end.
type BuildReport struct {
	out       reportOutput
	steps     []*BuildStep
	warnings  []BuildIssue
	errors    []BuildIssue
	started   time.Time
	passCount int
	cachePath string
	cached    *core.OutDirs
	failed    bool
}

func NewBuildReport(out reportOutput, cachePath string) *BuildReport {
	return &BuildReport{
		out:       out,
		started:   time.Now(),
		cachePath: cachePath,
	}
}

func (r *BuildReport) SetPassCount(count int) {
	r.passCount = count
}

// SetCached records the out dirs the bridge persisted.
func (r *BuildReport) SetCached(dirs *core.OutDirs) {
	r.cached = dirs
}

func (r *BuildReport) StartStep(pass, name string) *BuildStep {
	step := &BuildStep{
		Pass:    pass,
		Name:    name,
		Started: time.Now(),
	}
	r.steps = append(r.steps, step)
	return step
}

func (r *BuildReport) EndStep(step *BuildStep, err error) {
	step.Duration = time.Since(step.Started)
	step.Success = err == nil
	if err != nil {
		step.Error = err.Error()
		r.failed = true
	}
}

func (r *BuildReport) AddWarning(pass, message string, details []string) {
	r.warnings = append(r.warnings, BuildIssue{Pass: pass, Message: message, Details: details})
}

func (r *BuildReport) AddError(pass, message string, details []string) {
	r.errors = append(r.errors, BuildIssue{Pass: pass, Message: message, Details: details})
	r.failed = true
}

func (r *BuildReport) Steps() []BuildStep {
	steps := make([]BuildStep, len(r.steps))
	for i, s := range r.steps {
		steps[i] = *s
	}
	return steps
}

func (r *BuildReport) HasFailures() bool {
	return r.failed
}

func (r *BuildReport) Render() {
	w := r.out.Writer()
	total := time.Since(r.started)

	for _, step := range r.steps {
		mark := r.out.Green("✓")
		if !step.Success {
			mark = r.out.Red("✗")
		}
		_, _ = fmt.Fprintf(w, "  %s %-7s %s %s\n", mark, step.Pass, step.Name, r.out.Gray(formatDuration(step.Duration)))
	}

	if len(r.errors) > 0 {
		_, _ = fmt.Fprintf(r.out.ErrWriter(), "\n  %s Errors (%d):\n", r.out.Red("✗"), len(r.errors))
		r.renderIssues(r.out.ErrWriter(), r.errors)
	}
	if len(r.warnings) > 0 {
		_, _ = fmt.Fprintf(w, "\n  %s Warnings (%d):\n", r.out.Yellow("⚠"), len(r.warnings))
		r.renderIssues(w, r.warnings)
	}

	_, _ = fmt.Fprintln(w)
	if r.failed {
		_, _ = fmt.Fprintf(r.out.ErrWriter(), "  %s\n", r.out.Red("Build failed after "+formatDuration(total)))
		return
	}
	_, _ = fmt.Fprintf(w, "  %s %d build passes complete in %s\n", r.out.Green("✓"), r.passCount, formatDuration(total))
	r.renderCache(w)
}

func (r *BuildReport) renderCache(w io.Writer) {
	if r.cachePath == "" || r.cached == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Cached config: "+r.cachePath))
	if r.cached.ClientOutDir != "" {
		_, _ = fmt.Fprintf(w, "    client  %s\n", r.cached.ClientOutDir)
	}
	if r.cached.ServerOutDir != "" {
		_, _ = fmt.Fprintf(w, "    server  %s\n", r.cached.ServerOutDir)
	}
}

func (r *BuildReport) renderIssues(w io.Writer, issues []BuildIssue) {
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "  [%s] %s\n", issue.Pass, issue.Message)
		for _, detail := range deduplicateStrings(issue.Details) {
			_, _ = fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// deduplicateStrings collapses repeated details, keeping first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int, len(items))
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if n := counts[item]; n > 1 {
			item = fmt.Sprintf("%s (%d occurrences)", item, n)
		}
		result = append(result, item)
	}
	return result
}
