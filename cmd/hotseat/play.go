package main

import (
	"fmt"

	"ctchen222/hotseat/internal/console"
	"ctchen222/hotseat/internal/game"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long:  `Two players share the keyboard. Cells are numbered 1 to 9 from the top left; r resets the board and q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(cmd); err != nil {
			return err
		}

		one, _ := cmd.Flags().GetString("player-one")
		two, _ := cmd.Flags().GetString("player-two")

		out := cmd.OutOrStdout()
		g, err := game.NewStandard(one, two, game.WithNotifier(console.NewRenderer(out)))
		if err != nil {
			return fmt.Errorf("cannot start game: %w", err)
		}

		return console.Play(cmd.Context(), g, cmd.InOrStdin(), out)
	},
}

func init() {
	playCmd.Flags().String("player-one", "", "Name of the player using X (moves first)")
	playCmd.Flags().String("player-two", "", "Name of the player using O")
	_ = playCmd.MarkFlagRequired("player-one")
	_ = playCmd.MarkFlagRequired("player-two")
	rootCmd.AddCommand(playCmd)
}
