package experiments

import (
	"fmt"
	"sort"
	"strings"
)

type Standing struct {
	Player string
	Wins   int
	Rank   int
}

// Place renders the rank as "1st", "2nd" and so on.
func (s Standing) Place() string {
	return Ordinal(s.Rank)
}

type Leaderboard struct {
	TotalGames int
	Draws      int
	Standings  []Standing
}

// NewLeaderboard tallies results. Any winner other than red or blue counts
// as a draw. Players are ranked by wins; ties keep red first.
func NewLeaderboard(results []Result) Leaderboard {
	var red, blue, draws int
	for _, r := range results {
		switch r.Winner {
		case "red":
			red++
		case "blue":
			blue++
		default:
			draws++
		}
	}

	standings := []Standing{
		{Player: "Red", Wins: red},
		{Player: "Blue", Wins: blue},
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Wins > standings[j].Wins
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return Leaderboard{TotalGames: len(results), Draws: draws, Standings: standings}
}

// Lines renders the board the way the game displays it.
func (l Leaderboard) Lines() []string {
	lines := []string{fmt.Sprintf("Total Games Played: %d", l.TotalGames)}
	for _, s := range l.Standings {
		lines = append(lines, fmt.Sprintf("%s - %s place - %d wins", s.Player, s.Place(), s.Wins))
	}
	lines = append(lines, fmt.Sprintf("Draws: %d", l.Draws))
	return lines
}

func (l Leaderboard) String() string {
	return strings.Join(l.Lines(), "\n")
}

func Ordinal(n int) string {
	j, k := n%10, n%100
	switch {
	case j == 1 && k != 11:
		return fmt.Sprintf("%dst", n)
	case j == 2 && k != 12:
		return fmt.Sprintf("%dnd", n)
	case j == 3 && k != 13:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
