package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
)

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the rotors and reflectors the machine can carry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderCatalog())
			return err
		},
	}
}

func renderCatalog() string {
	rotors := newTable("#", "ROTOR", "WIRING", "NOTCHES")
	for i, r := range enigma.Rotors() {
		rotors.Row(fmt.Sprint(i), r.Name, r.Wiring, r.Notches)
	}

	reflectors := newTable("REFLECTOR", "WIRING")
	for _, r := range enigma.Reflectors() {
		name := r.Name
		if name == enigma.DefaultReflector {
			name += " (default)"
		}
		reflectors.Row(name, r.Wiring)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rotors.Render(), reflectors.Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
