package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardroom/holdemd/internal/engine"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	toActStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	foldedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// renderSnapshot formats one table snapshot for the terminal
func renderSnapshot(snap *engine.Snapshot) string {
	var b strings.Builder

	phase := snap.Phase
	if phase == "" {
		phase = "idle"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  pot %d", phase, snap.Pot)))
	if len(snap.Community) > 0 {
		b.WriteString("  " + cardStyle.Render(strings.Join(snap.Community, " ")))
	}
	b.WriteString("\n")

	for _, seat := range snap.Seats {
		line := fmt.Sprintf("  seat %d  %-12s %6d chips", seat.ID, seat.Name, seat.Chips)
		if seat.RoundBet > 0 {
			line += fmt.Sprintf("  bet %d", seat.RoundBet)
		}
		if seat.Role != "" {
			line += "  [" + seat.Role + "]"
		}
		if len(seat.HoleCards) > 0 {
			line += "  " + cardStyle.Render(strings.Join(seat.HoleCards, " "))
		}
		switch {
		case seat.Folded:
			line = foldedStyle.Render(line + "  folded")
		case seat.AllIn:
			line += "  all-in"
		case seat.ID == snap.ToAct:
			line = toActStyle.Render(line + "  <- to act")
		}
		b.WriteString(line + "\n")
	}

	if len(snap.Actions) > 0 {
		names := make([]string, 0, len(snap.Actions))
		for name := range snap.Actions {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			opt := snap.Actions[name]
			switch {
			case opt.Min > 0 || opt.Max > 0:
				parts = append(parts, fmt.Sprintf("%s %d..%d", name, opt.Min, opt.Max))
			case opt.Amount > 0:
				parts = append(parts, fmt.Sprintf("%s %d", name, opt.Amount))
			default:
				parts = append(parts, name)
			}
		}
		b.WriteString("  actions: " + strings.Join(parts, ", ") + "\n")
	}

	for _, w := range snap.Winners {
		line := fmt.Sprintf("  seat %d wins %d", w.Seat, w.Amount)
		if w.Category != "" {
			line += " with " + w.Category
		}
		b.WriteString(winStyle.Render(line) + "\n")
	}
	if snap.Message != "" {
		b.WriteString("  " + snap.Message + "\n")
	}

	return b.String()
}
