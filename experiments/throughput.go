package experiments

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"pursuit/experiments/metrics"
)

// AgentSummary aggregates the games one agent played on one layout.
type AgentSummary struct {
	AgentID        int
	Agent          string
	Layout         string
	Games          int
	Wins           int
	Losses         int
	MeanScore      float64
	Moves          int
	MeanDecision   time.Duration
	MeanIterations float64
	Failures       int
}

type Summary []AgentSummary

// Summarize groups the records by agent config and layout, in order of first appearance.
func Summarize(games []metrics.GameRecord, moves []metrics.MoveRecord) Summary {
	type key struct {
		agent  int
		layout string
	}
	index := map[key]int{}
	byGame := map[int]int{} // Game ID to summary index
	summary := Summary{}

	for _, g := range games {
		k := key{g.AgentID, g.Layout}
		i, ok := index[k]
		if !ok {
			i = len(summary)
			index[k] = i
			summary = append(summary, AgentSummary{AgentID: g.AgentID, Agent: g.Agent, Layout: g.Layout})
		}
		byGame[g.ID] = i
		s := &summary[i]
		s.Games++
		s.MeanScore += float64(g.Score)
		if g.Won {
			s.Wins++
		}
		if g.Lost {
			s.Losses++
		}
	}

	decisions := make([]time.Duration, len(summary))
	iterations := make([]int, len(summary))
	for _, m := range moves {
		i, ok := byGame[m.Game]
		if !ok {
			continue
		}
		summary[i].Moves++
		summary[i].Failures += m.Failures
		decisions[i] += m.Duration
		iterations[i] += m.Iterations
	}

	for i := range summary {
		s := &summary[i]
		s.MeanScore /= float64(s.Games)
		if s.Moves > 0 {
			s.MeanDecision = decisions[i] / time.Duration(s.Moves)
			s.MeanIterations = float64(iterations[i]) / float64(s.Moves)
		}
	}
	return summary
}

// Print writes the summary as an aligned table, sorted by win rate.
func (s Summary) Print(w io.Writer) error {
	sorted := make(Summary, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return float64(sorted[i].Wins)/float64(sorted[i].Games) > float64(sorted[j].Wins)/float64(sorted[j].Games)
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAGENT\tLAYOUT\tGAMES\tWINS\tLOSSES\tMEAN SCORE\tMEAN DECISION\tMEAN ITERATIONS\tFAILURES")
	for _, a := range sorted {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%.1f\t%s\t%.1f\t%d\n",
			a.AgentID, a.Agent, a.Layout, a.Games, a.Wins, a.Losses, a.MeanScore, a.MeanDecision, a.MeanIterations, a.Failures)
	}
	return tw.Flush()
}
