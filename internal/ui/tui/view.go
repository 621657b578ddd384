package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderPhases(&b, m)

	if len(m.Nodes) > 0 {
		renderNodes(&b, m)
	}
	if len(m.Notices) > 0 {
		renderNotices(&b, m)
	}

	renderFooter(&b, m)
	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("clusterform: %s", m.Stack)
	if m.Provider != "" {
		title += fmt.Sprintf(" (%s)", m.Provider)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render("Failed")
	case m.Done:
		status += readyStyle.Render("Done")
	case m.Status != "":
		status += dimStyle.Render(m.Status)
	default:
		status += dimStyle.Render("Planning...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		detail := ""
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
			detail = phase.Err.Error()
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
			detail = formatElapsed(phase.Elapsed)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		fmt.Fprintf(b, "    %s %-10s %s\n", style(icon), style(phase.Name), dimStyle.Render(detail))
	}
}

func renderNodes(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Quorum Nodes"))
	b.WriteString("\n")

	for _, node := range m.Nodes {
		style := sf(readyStyle)
		if node.JoinState == "existing" {
			style = sf(warningStyle)
		}
		fmt.Fprintf(b, "    %s %-24s %-14s %s\n", style(checkMark), node.Tag, node.Zone, style(node.JoinState))
	}
}

func renderNotices(b *strings.Builder, m Model) {
	for _, notice := range m.Notices {
		fmt.Fprintf(b, "  %s %s\n", warningStyle.Render(warnMark), notice)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := time.Duration(0)
	if !m.StartTime.IsZero() {
		elapsed = time.Since(m.StartTime)
	}
	line := fmt.Sprintf("elapsed: %s", formatElapsed(elapsed))
	if m.Err != nil {
		line += "  " + failedStyle.Render(m.Err.Error())
	}
	b.WriteString(footerStyle.Render(line))
	b.WriteString("\n")
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// formatElapsed renders short durations in milliseconds and longer ones
// in seconds.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
