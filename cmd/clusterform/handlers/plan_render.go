package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	planColorGreen  = lipgloss.Color("#22c55e")
	planColorYellow = lipgloss.Color("#eab308")
	planColorBlue   = lipgloss.Color("#3b82f6")
	planColorDim    = lipgloss.Color("#6b7280")
	planColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	planTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(planColorWhite)

	planSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(planColorBlue)

	planDimStyle = lipgloss.NewStyle().
			Foreground(planColorDim)

	planNewStyle = lipgloss.NewStyle().
			Foreground(planColorGreen)

	planWarnStyle = lipgloss.NewStyle().
			Foreground(planColorYellow)
)

// renderPlanSummary produces a lipgloss-styled plan summary string.
func renderPlanSummary(summary *planSummary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(planTitleStyle.Render(fmt.Sprintf("  clusterform plan: %s (%s)", summary.Stack, summary.Provider)))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	renderPlanGroups(&b, summary.Groups)

	if len(summary.Nodes) > 0 {
		b.WriteString("\n")
		renderPlanNodes(&b, summary.Nodes)
	}

	if len(summary.Dropped) > 0 {
		b.WriteString("\n")
		b.WriteString(planSectionStyle.Render("  Ignored Colocations"))
		b.WriteString("\n")
		for _, d := range summary.Dropped {
			b.WriteString(planWarnStyle.Render(fmt.Sprintf("    %s cannot take %s: already placed with %s", d.Role, d.Target, d.ClaimedBy)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderPlanGroups(b *strings.Builder, groups []planGroup) {
	b.WriteString(planSectionStyle.Render("  Groups"))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("─", 60)))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render(fmt.Sprintf("  %-14s %-30s %-8s %s", "Group", "Roles", "Kind", "Size")))
	b.WriteString("\n")

	for _, g := range groups {
		kind := "elastic"
		size := fmt.Sprintf("%d-%d", g.Instances, g.InstancesMax)
		if g.QuorumHost {
			kind = "quorum"
			size = fmt.Sprintf("%d", g.Instances)
		}
		if g.InstanceSize != "" {
			size += " x " + g.InstanceSize
		}
		fmt.Fprintf(b, "  %-14s %-30s %-8s %s\n", g.Name, strings.Join(g.Roles, ","), kind, size)
	}
}

func renderPlanNodes(b *strings.Builder, nodes []planNode) {
	b.WriteString(planSectionStyle.Render("  Quorum Nodes"))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("─", 60)))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render(fmt.Sprintf("  %-30s %-16s %s", "Node", "Zone", "Cluster State")))
	b.WriteString("\n")

	for _, n := range nodes {
		state := planDimStyle.Render(n.JoinState)
		if n.JoinState == "new" {
			state = planNewStyle.Render(n.JoinState)
		}
		fmt.Fprintf(b, "  %-30s %-16s %s\n", n.Tag, n.Zone, state)
	}
}
