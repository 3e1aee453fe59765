package client

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdemtable/internal/protocol"
	"github.com/muesli/termenv"
)

// Renderer formats server messages for a terminal.
type Renderer struct {
	header    lipgloss.Style
	info      lipgloss.Style
	redCard   lipgloss.Style
	blackCard lipgloss.Style
	actions   lipgloss.Style
	success   lipgloss.Style
	errorText lipgloss.Style
	muted     lipgloss.Style
}

// NewRenderer builds styles for w. The colour profile is detected from w
// unless profile is given.
func NewRenderer(w io.Writer, profile ...termenv.Profile) *Renderer {
	var opts []termenv.OutputOption
	if len(profile) > 0 {
		opts = append(opts, termenv.WithProfile(profile[0]))
	}
	r := lipgloss.NewRenderer(w, opts...)

	return &Renderer{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		info: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		redCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		blackCard: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		errorText: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Render formats any server message.
func (r *Renderer) Render(msg any) string {
	switch m := msg.(type) {
	case *protocol.Connected:
		return r.success.Render(fmt.Sprintf("Connected to %s as seat %d (id %s)", m.Table, m.Seat, m.PlayerID))
	case *protocol.Error:
		return r.errorText.Render(fmt.Sprintf("Error [%s]: %s", m.Code, m.Message))
	case *protocol.State:
		out := r.View(m.View)
		if m.Error != "" {
			out += "\n" + r.errorText.Render(fmt.Sprintf("Error [%s]: %s", m.Code, m.Error))
		}
		return out
	default:
		return fmt.Sprintf("%v", msg)
	}
}

// View formats a player's view of the table.
func (r *Renderer) View(v protocol.View) string {
	var b strings.Builder

	if v.Stage == protocol.StageWaiting {
		b.WriteString(r.header.Render(" Waiting ") + "\n")
		r.writeLog(&b, v.Log)
		return strings.TrimRight(b.String(), "\n")
	}

	fmt.Fprintf(&b, "%s\n", r.header.Render(fmt.Sprintf(" Hand #%d · %s ", v.HandNumber, v.Stage)))
	fmt.Fprintf(&b, "Board: %s   Pot: %d   Bet: %d   Dealer: %s\n",
		r.Cards(v.Community), v.Pot, v.CurrentBet, v.Dealer)

	status := ""
	switch {
	case v.Bankrupt:
		status = r.muted.Render(" (bankrupt)")
	case v.Folded:
		status = r.muted.Render(" (folded)")
	}
	fmt.Fprintf(&b, "%s: %s  balance %d  bet %d%s\n",
		r.info.Render(v.Player), r.Cards(v.HoleCards), v.Balance, v.Bet, status)

	for _, o := range v.Opponents {
		var flags []string
		if o.Folded {
			flags = append(flags, "folded")
		}
		if o.Bankrupt {
			flags = append(flags, "bankrupt")
		}
		if !o.Connected {
			flags = append(flags, "away")
		}
		line := fmt.Sprintf("  %s: %s  balance %d  bet %d", o.Name, r.Cards(o.Cards), o.Balance, o.Bet)
		if len(flags) > 0 {
			line += r.muted.Render(" (" + strings.Join(flags, ", ") + ")")
		}
		b.WriteString(line + "\n")
	}

	r.writeLog(&b, v.Log)

	switch {
	case v.SessionOver:
		b.WriteString(r.success.Render(fmt.Sprintf("Session over, %s wins", v.Winner)) + "\n")
	case v.IsTurn:
		b.WriteString(r.actions.Render("Your move: "+strings.Join(v.ValidActions, ", ")) +
			r.muted.Render(fmt.Sprintf(" (min raise %d)", v.MinimumRaise)) + "\n")
	case v.Current != "":
		b.WriteString(r.muted.Render("Waiting for "+v.Current) + "\n")
	}

	if h := v.LastHand; h != nil && len(h.Showdown) > 0 {
		b.WriteString(r.muted.Render(fmt.Sprintf("Hand #%d showdown:", h.HandNumber)) + "\n")
		for _, s := range h.Showdown {
			fmt.Fprintf(&b, "  %s: %s %s\n", s.Player, r.Cards(s.Cards), s.Description)
		}
		b.WriteString("  Winners: " + formatWinners(h.Winners) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// Cards renders a card list, colouring hearts and diamonds red.
func (r *Renderer) Cards(cards []string) string {
	if len(cards) == 0 {
		return r.muted.Render("--")
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		switch {
		case strings.HasSuffix(c, "h"), strings.HasSuffix(c, "d"):
			out[i] = r.redCard.Render(c)
		case c == "??":
			out[i] = r.muted.Render(c)
		default:
			out[i] = r.blackCard.Render(c)
		}
	}
	return strings.Join(out, " ")
}

func (r *Renderer) writeLog(b *strings.Builder, entries []string) {
	for _, e := range entries {
		b.WriteString(r.muted.Render("> ") + e + "\n")
	}
}

func formatWinners(winners map[string]int) string {
	names := make([]string, 0, len(winners))
	for name := range winners {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s +%d", name, winners[name])
	}
	return strings.Join(parts, ", ")
}
