package workload

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates end-of-run statistics across clients.
type Summary struct {
	TotalRequests int
	TotalLatency  int64
	MaxLatency    int64
	windowAvgs    []float64
}

// Summarize collects run totals from the given clients.
func Summarize(clients []*Client) *Summary {
	s := &Summary{}
	for _, c := range clients {
		s.TotalRequests += c.TotalRequests()
		s.TotalLatency += c.TotalLatency()
		if c.MaxLatency() > s.MaxLatency {
			s.MaxLatency = c.MaxLatency()
		}
		s.windowAvgs = append(s.windowAvgs, c.WindowAverages()...)
	}
	return s
}

// AvgLatency returns the overall average request latency in ticks.
func (s *Summary) AvgLatency() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.TotalLatency) / float64(s.TotalRequests)
}

// Print displays the aggregated metrics at the end of the simulation.
func (s *Summary) Print(horizon int64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Horizon              : %d ticks\n", horizon)
	fmt.Printf("Completed Requests   : %d\n", s.TotalRequests)
	if s.TotalRequests == 0 {
		return
	}
	fmt.Printf("Average Latency      : %.2f ticks\n", s.AvgLatency())
	fmt.Printf("Max Latency          : %d ticks\n", s.MaxLatency)
	if len(s.windowAvgs) > 0 {
		avgs := append([]float64(nil), s.windowAvgs...)
		sort.Float64s(avgs)
		fmt.Printf("Window Avg (mean)    : %.2f ticks\n", stat.Mean(avgs, nil))
		fmt.Printf("Window Avg (median)  : %.2f ticks\n", stat.Quantile(0.5, stat.Empirical, avgs, nil))
		fmt.Printf("Window Avg (p95)     : %.2f ticks\n", stat.Quantile(0.95, stat.Empirical, avgs, nil))
	}
}
