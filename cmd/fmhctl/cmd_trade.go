package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

func (c *cli) welcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "welcome",
		Short: "Print the backend's home headline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			welcome, err := c.client(cmd).Welcome(ctx)
			if err != nil {
				return fmt.Errorf("load welcome: %w", err)
			}
			if welcome.Title == "" && welcome.Message == "" {
				welcome = player.DefaultWelcome()
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), welcome)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(welcome.Title))
			fmt.Fprintln(out, welcome.Message)
			return nil
		},
	}
}

func (c *cli) simulateCmd() *cobra.Command {
	var sideA, sideB []string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Value a trade between two sets of player ids",
		Example: `  fmhctl simulate --a 4046,6794 --b 4984
  FMH_API_BASE_URL=https://api.example.com fmhctl simulate --a 4046 --b 4984 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selection := trade.Selection{}
			for _, id := range sideA {
				selection, _ = selection.Add(trade.SideA, player.Lite{ID: id})
			}
			for _, id := range sideB {
				selection, _ = selection.Add(trade.SideB, player.Lite{ID: id})
			}
			if selection.Empty() {
				return fmt.Errorf("%w: pass player ids with --a and --b", usecase.ErrNothingToSimulate)
			}

			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			result, err := c.client(cmd).Simulate(ctx, selection.Request())
			if err != nil {
				return fmt.Errorf("simulate trade: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			for _, side := range []struct {
				name  string
				total trade.SideTotal
			}{
				{name: "Side A", total: result.SideA},
				{name: "Side B", total: result.SideB},
			} {
				tbl := newTable(side.name, "ID", "Name", "Pos", "Team", "Value")
				for _, p := range side.total.Players {
					if p.Error != "" {
						tbl.addRow(p.SleeperID, errorStyle.Render(p.Error), "", "", "")
						continue
					}
					tbl.addRow(p.SleeperID, p.FullName, p.Position, p.Team, oneDecimal(p.Valuation))
				}
				fmt.Fprint(out, tbl.render("No players"))
				fmt.Fprintln(out)
			}

			printField(out, "Total A:", strconv.FormatFloat(result.SideA.Total, 'f', -1, 64))
			printField(out, "Total B:", strconv.FormatFloat(result.SideB.Total, 'f', -1, 64))
			printField(out, "Δ (A - B):", strconv.FormatFloat(result.Delta, 'f', -1, 64))
			printField(out, "Winner:", result.Winner)
			printField(out, "Margin %:", strconv.FormatFloat(result.MarginPct, 'f', -1, 64)+"%")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sideA, "a", nil, "Player ids on side A")
	cmd.Flags().StringSliceVar(&sideB, "b", nil, "Player ids on side B")

	return cmd
}
