package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
)

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search players by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			players, err := c.client(cmd).Search(ctx, query)
			if err != nil {
				return fmt.Errorf("search players: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), players)
			}

			tbl := newTable(fmt.Sprintf("Search %q", query), "ID", "Name", "Pos", "Team", "Value")
			for _, p := range players {
				tbl.addRow(p.ID, p.Name, p.Position, p.Team, oneDecimal(p.Valuation))
			}
			fmt.Fprint(cmd.OutOrStdout(), tbl.render("No results"))
			return nil
		},
	}
}

func (c *cli) trendingCmd() *cobra.Command {
	var (
		search    string
		positions []string
		minVal    string
		maxVal    string
		sortBy    string
		order     string
		page      int
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending players with filters, sorting and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := url.Values{}
			flags := cmd.Flags()
			if flags.Changed("q") {
				values.Set("q", search)
			}
			if flags.Changed("positions") {
				values.Set("positions", strings.Join(positions, ","))
			}
			if flags.Changed("min") {
				if _, ok := trending.ParseBound(minVal); !ok {
					return fmt.Errorf("invalid --min %q", minVal)
				}
				values.Set("min_val", minVal)
			}
			if flags.Changed("max") {
				if _, ok := trending.ParseBound(maxVal); !ok {
					return fmt.Errorf("invalid --max %q", maxVal)
				}
				values.Set("max_val", maxVal)
			}
			if flags.Changed("sort") {
				if !trending.ValidSortKey(trending.SortKey(sortBy)) {
					return fmt.Errorf("invalid --sort %q", sortBy)
				}
				values.Set("sort_by", sortBy)
			}
			if flags.Changed("order") {
				values.Set("order", order)
			}
			if flags.Changed("page") {
				values.Set("page", strconv.Itoa(page))
			}
			if flags.Changed("page-size") {
				values.Set("page_size", strconv.Itoa(pageSize))
			}
			state := trending.ParseViewState(values)

			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			result, err := c.client(cmd).ListTrending(ctx, state.Query())
			if err != nil {
				return fmt.Errorf("list trending players: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			pager := trending.NewPager(state, &result)
			tbl := newTable("Trending Players", "#", "Name", "Pos", "Team", "Age", "Value", "Ovr", "Pos Rk", "Trend 30d", "+24h", "-24h")
			for i, row := range result.Items {
				tbl.addRow(
					strconv.Itoa(state.RowNumber(i)),
					row.Name,
					row.Position,
					row.Team,
					optInt(row.Age),
					oneDecimal(row.Valuation),
					optInt(row.OverallRank),
					optInt(row.PositionRank),
					optSigned(row.Trend30),
					strconv.Itoa(row.Adds24h),
					strconv.Itoa(row.Drops24h),
				)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, tbl.render("No players"))
			fmt.Fprintln(out, sepStyle.Render(fmt.Sprintf("Page %d / %d • Total %d", pager.Page, pager.LastPage, result.Total)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&search, "q", "", "Name search")
	flags.StringSliceVar(&positions, "positions", nil, "Positions to include, e.g. QB,WR (empty for all)")
	flags.StringVar(&minVal, "min", "", "Minimum valuation")
	flags.StringVar(&maxVal, "max", "", "Maximum valuation")
	flags.StringVar(&sortBy, "sort", string(trending.DefaultSortBy), "Sort column")
	flags.StringVar(&order, "order", string(trending.DefaultOrder), "Sort order: asc or desc")
	flags.IntVar(&page, "page", 1, "Page number")
	flags.IntVar(&pageSize, "page-size", trending.DefaultPageSize, "Rows per page: 10, 25, 50 or 100")

	return cmd
}

type moversOutput struct {
	Risers  []player.Row `json:"risers"`
	Fallers []player.Row `json:"fallers"`
}

func (c *cli) moversCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "movers",
		Short: "Show the most added and most dropped players of the last 24h",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be > 0")
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			client := c.client(cmd)
			var out moversOutput
			p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
			p.Go(func(ctx context.Context) error {
				page, err := client.ListTrending(ctx, trending.MoversQuery(trending.SortAdds24h, limit))
				out.Risers = page.Items
				return err
			})
			p.Go(func(ctx context.Context) error {
				page, err := client.ListTrending(ctx, trending.MoversQuery(trending.SortDrops24h, limit))
				out.Fallers = page.Items
				return err
			})
			if err := p.Wait(); err != nil {
				return fmt.Errorf("load movers: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}

			risers := newTable("Top Risers (24h)", "Name", "Pos", "Team", "Adds")
			for _, row := range out.Risers {
				risers.addRow(row.Name, row.Position, row.Team, "+"+strconv.Itoa(row.Adds24h))
			}
			fallers := newTable("Top Fallers (24h)", "Name", "Pos", "Team", "Drops")
			for _, row := range out.Fallers {
				fallers.addRow(row.Name, row.Position, row.Team, "-"+strconv.Itoa(row.Drops24h))
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, risers.render("No data"))
			fmt.Fprintln(w)
			fmt.Fprint(w, fallers.render("No data"))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Players per list")

	return cmd
}

func (c *cli) positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Count tracked players per position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			counts, err := c.client(cmd).Positions(ctx)
			if err != nil {
				return fmt.Errorf("list positions: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), counts)
			}

			tbl := newTable("Positions", "Position", "Players")
			for _, pc := range counts {
				tbl.addRow(pc.Position, strconv.Itoa(pc.Count))
			}
			fmt.Fprint(cmd.OutOrStdout(), tbl.render("No positions"))
			return nil
		},
	}
}

func (c *cli) teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Count tracked players per team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			counts, err := c.client(cmd).Teams(ctx)
			if err != nil {
				return fmt.Errorf("list teams: %w", err)
			}
			if c.output() == outputJSON {
				return printJSON(cmd.OutOrStdout(), counts)
			}

			tbl := newTable("Teams", "Team", "Players")
			for _, tc := range counts {
				tbl.addRow(tc.Team, strconv.Itoa(tc.Count))
			}
			fmt.Fprint(cmd.OutOrStdout(), tbl.render("No teams"))
			return nil
		},
	}
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optSigned(v *float64) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + oneDecimal(*v)
	}
	return oneDecimal(*v)
}
