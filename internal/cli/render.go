// Package cli renders summaries for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/department-summary/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sectionStyle = lipgloss.NewStyle().Underline(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	blockStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// RenderSnapshot writes every department of snap in summary order.
func RenderSnapshot(w io.Writer, snap *domain.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s (%d records, %d departments)\n\n",
		labelStyle.Render("source"), snap.Source, snap.Records, snap.Summary.Len())

	snap.Summary.Each(func(name string, d *domain.DepartmentSummary) bool {
		b.WriteString(titleStyle.Render(name))
		b.WriteString("\n")
		b.WriteString(blockStyle.Render(renderDepartment(d)))
		b.WriteString("\n\n")
		return true
	})

	if len(snap.Skipped) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d malformed records skipped", len(snap.Skipped))))
		b.WriteString("\n")
		for _, s := range snap.Skipped {
			fmt.Fprintf(&b, "  #%d (id %d): %s\n", s.Index, s.ID, s.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderDepartment(d *domain.DepartmentSummary) string {
	var lines []string
	lines = append(lines,
		labelStyle.Render("Male:")+fmt.Sprintf(" %d", d.Male),
		labelStyle.Render("Female:")+fmt.Sprintf(" %d", d.Female),
		labelStyle.Render("Age Range:")+" "+d.AgeRange,
		sectionStyle.Render("Hair"),
	)
	d.Hair.Each(func(color string, n int) bool {
		lines = append(lines, fmt.Sprintf("  %s: %d", color, n))
		return true
	})
	lines = append(lines, sectionStyle.Render("Address Summary"))
	d.AddressUser.Each(func(person, postal string) bool {
		lines = append(lines, fmt.Sprintf("  %s: %s", person, postal))
		return true
	})
	return strings.Join(lines, "\n")
}
