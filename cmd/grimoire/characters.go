package main

import (
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/abilities"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/spf13/cobra"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the character catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := characters.Default()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderCatalog(cat, abilities.Names()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(charactersCmd)
}
