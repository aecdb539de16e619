package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/grimoire"
	"github.com/clocktower/grimoire-go/internal/game/status"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	goodStyle   = cellStyle.Foreground(lipgloss.Color("#04B575"))
	evilStyle   = cellStyle.Foreground(lipgloss.Color("#F25D94"))
	deadStyle   = cellStyle.Foreground(lipgloss.Color("#666666")).Strikethrough(true)
)

// renderGrimoire draws one row per seat. Without all, only the effects the
// grimoire shows by default are listed.
func renderGrimoire(snap *grimoire.Snapshot, all bool) string {
	rows := make([][]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		state := "alive"
		if p.Dead {
			state = "dead"
		}
		if !p.Functioning && !p.Dead {
			state = "impaired"
		}
		rows = append(rows, []string{
			fmt.Sprint(p.Position + 1),
			p.Name,
			p.Character,
			state,
			fmt.Sprint(p.DeadVotes),
			effectList(p, all),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
		Headers("#", "Player", "Character", "State", "Votes", "Effects").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			p := snap.Players[row]
			switch {
			case p.Dead:
				return deadStyle
			case col == 2 && p.IsGood():
				return goodStyle
			case col == 2:
				return evilStyle
			}
			return cellStyle
		})

	header := fmt.Sprintf("%s  day %d  night %d  %d/%d alive",
		snap.Phase, snap.Day, snap.Night, snap.Alive(), len(snap.Players))
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(header), t.String())
}

func effectList(p grimoire.PlayerView, all bool) string {
	views := p.Visible()
	if all {
		views = p.Effects
	}
	names := make([]string, 0, len(views))
	for _, e := range views {
		name := e.Name
		if all && !e.Enabled {
			name += " (off)"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// renderCatalog lists every character, marking those with an active ability.
func renderCatalog(cat *characters.Catalog, active []string) string {
	withAbility := make(map[string]bool, len(active))
	for _, name := range active {
		withAbility[name] = true
	}
	var rows [][]string
	for _, c := range cat.All() {
		alignment := "-"
		if c.Alignment != "" {
			alignment = c.Alignment.String()
		}
		ability := ""
		if withAbility[c.Name] {
			ability = "yes"
		}
		rows = append(rows, []string{c.Name, c.Type.String(), alignment, ability})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Character", "Type", "Alignment", "Ability").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch rows[row][2] {
			case status.Good.String():
				return goodStyle
			case status.Evil.String():
				return evilStyle
			}
			return cellStyle
		})
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%d characters", cat.Len())), t.String())
}
