package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

const defaultRuleWidth = 48

// styles renders with the colour profile of the writer it prints to.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
	faint lipgloss.Style
	ruleW int
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		label: r.NewStyle().Width(14),
		good:  r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		faint: r.NewStyle().Faint(true),
		ruleW: ruleWidth(w),
	}
}

// ruleWidth caps the separator to the terminal width when w is a terminal.
func ruleWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultRuleWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || width > defaultRuleWidth {
		return defaultRuleWidth
	}
	return width
}

func (s styles) rule() string {
	return s.faint.Render(strings.Repeat("─", s.ruleW))
}

// printSummary writes the end-of-run summary: counts per origin, remote
// outcomes and bytes downloaded.
func printSummary(w io.Writer, report *domain.RunReport, keyEnv string, manifestWritten bool) {
	s := newStyles(w)
	counts := report.Counts()
	failed := len(report.Failures())

	fmt.Fprintf(w, "%s  %s\n", s.title.Render("Asset pipeline"),
		s.faint.Render(fmt.Sprintf("run %s  %s", shortID(report.RunID), report.Duration().Round(time.Millisecond))))
	fmt.Fprintln(w, s.rule())

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(label), value)
	}
	row("Preexisting", s.good.Render(fmt.Sprint(counts[domain.OriginPreexistingLocal])))
	downloaded := fmt.Sprint(counts[domain.OriginDownloaded])
	if b := report.BytesDownloaded(); b > 0 {
		downloaded += s.faint.Render(fmt.Sprintf("  (%s)", humanize.Bytes(uint64(b))))
	}
	row("Downloaded", s.good.Render(downloaded))
	row("Placeholder", s.warn.Render(fmt.Sprint(counts[domain.OriginPlaceholder])))
	if failed > 0 {
		row("Failed", s.bad.Render(fmt.Sprint(failed)))
	} else {
		row("Failed", "0")
	}

	if report.RemoteEnabled {
		row("Remote", fmt.Sprintf("%d found, %d not found, %d network errors",
			report.FetchCount(domain.FetchFound),
			report.FetchCount(domain.FetchNotFound),
			report.FetchCount(domain.FetchNetworkError)))
	} else {
		row("Remote", s.faint.Render(fmt.Sprintf("disabled (%s not set)", keyEnv)))
	}

	fmt.Fprintln(w, s.rule())
	if manifestWritten {
		fmt.Fprintf(w, "Manifest: %s\n", report.ManifestPath)
	} else {
		fmt.Fprintln(w, s.warn.Render("Manifest not written"))
	}
}

// printFailures lists failed slot ids with their cause.
func printFailures(w io.Writer, failures []domain.SlotError) {
	if len(failures) == 0 {
		return
	}
	s := newStyles(w)
	fmt.Fprintln(w, s.bad.Render("Failed slots:"))
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %v\n", f.SlotID, f.Err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
