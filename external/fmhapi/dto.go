package fmhapi

import (
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
)

type welcomeDTO struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type healthDTO struct {
	OK bool `json:"ok"`
}

type errorDTO struct {
	Detail any `json:"detail"`
}

type playerLiteDTO struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Pos  string  `json:"pos"`
	Team string  `json:"team"`
	Val  float64 `json:"val"`
}

type playerRowDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Position     string   `json:"position"`
	Team         string   `json:"team"`
	Age          *int     `json:"age"`
	Valuation    float64  `json:"valuation"`
	OverallRank  *int     `json:"overall_rank"`
	PositionRank *int     `json:"position_rank"`
	Trend30      *float64 `json:"trend30"`
	Adds24h      int      `json:"adds_24h"`
	Drops24h     int      `json:"drops_24h"`
}

type filtersDTO struct {
	Q         string   `json:"q"`
	Positions []string `json:"positions"`
	Team      string   `json:"team"`
	MinVal    *float64 `json:"min_val"`
	MaxVal    *float64 `json:"max_val"`
}

type playersPageDTO struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	SortBy     string         `json:"sort_by"`
	Order      string         `json:"order"`
	Filters    filtersDTO     `json:"filters"`
	Items      []playerRowDTO `json:"items"`
}

type positionCountDTO struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}

type teamCountDTO struct {
	Team  string `json:"team"`
	Count int    `json:"count"`
}

type simulateRequestDTO struct {
	SideA []string `json:"side_a"`
	SideB []string `json:"side_b"`
}

type valuedPlayerDTO struct {
	SleeperID string  `json:"sleeper_id"`
	FullName  string  `json:"full_name"`
	Position  string  `json:"position"`
	Team      string  `json:"team"`
	Valuation float64 `json:"valuation"`
	Error     string  `json:"error"`
}

type sideTotalDTO struct {
	Total   float64           `json:"total"`
	Players []valuedPlayerDTO `json:"players"`
}

type simulationResultDTO struct {
	SideA     sideTotalDTO `json:"side_a"`
	SideB     sideTotalDTO `json:"side_b"`
	Delta     float64      `json:"delta"`
	Winner    string       `json:"winner"`
	MarginPct float64      `json:"margin_pct"`
}

func (d playerLiteDTO) toDomain() player.Lite {
	return player.Lite{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Pos,
		Team:      d.Team,
		Valuation: d.Val,
	}
}

func (d playerRowDTO) toDomain() player.Row {
	return player.Row{
		ID:           d.ID,
		Name:         d.Name,
		Position:     d.Position,
		Team:         d.Team,
		Age:          d.Age,
		Valuation:    d.Valuation,
		OverallRank:  d.OverallRank,
		PositionRank: d.PositionRank,
		Trend30:      d.Trend30,
		Adds24h:      d.Adds24h,
		Drops24h:     d.Drops24h,
	}
}

func (d playersPageDTO) toDomain() player.Page {
	items := make([]player.Row, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, item.toDomain())
	}

	return player.Page{
		Page:       d.Page,
		PageSize:   d.PageSize,
		Total:      d.Total,
		TotalPages: d.TotalPages,
		SortBy:     d.SortBy,
		Order:      d.Order,
		Filters: player.Filters{
			Query:     d.Filters.Q,
			Positions: d.Filters.Positions,
			Team:      d.Filters.Team,
			MinVal:    d.Filters.MinVal,
			MaxVal:    d.Filters.MaxVal,
		},
		Items: items,
	}
}

func (d sideTotalDTO) toDomain() trade.SideTotal {
	players := make([]trade.ValuedPlayer, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, trade.ValuedPlayer{
			SleeperID: p.SleeperID,
			FullName:  p.FullName,
			Position:  p.Position,
			Team:      p.Team,
			Valuation: p.Valuation,
			Error:     p.Error,
		})
	}
	return trade.SideTotal{Total: d.Total, Players: players}
}

func (d simulationResultDTO) toDomain() trade.SimulationResult {
	return trade.SimulationResult{
		SideA:     d.SideA.toDomain(),
		SideB:     d.SideB.toDomain(),
		Delta:     d.Delta,
		Winner:    d.Winner,
		MarginPct: d.MarginPct,
	}
}
