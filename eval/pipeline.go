package eval

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/schedule"
	"github.com/luowanxu/Level-4-Project/trip"
)

const evalTimeLayout = "2006-01-02 15:04:05"

// Options tune an evaluation run.
type Options struct {
	// NumRandomSolutions is the baseline sample size per scenario.
	NumRandomSolutions int
	// Workers bounds concurrent baseline draws and scenario evaluations.
	Workers int
	// Seed drives every random draw in the run. Zero seeds from the clock.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.NumRandomSolutions <= 0 {
		o.NumRandomSolutions = 100
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Scenario is one evaluation case: a place set plus trip parameters.
type Scenario struct {
	Name          string
	Type          string
	Places        []place.Place
	StartDate     string
	EndDate       string
	TransportMode string
	DurationDays  int
}

func (s Scenario) request() schedule.Request {
	return schedule.Request{
		Places:        s.Places,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		TransportMode: s.TransportMode,
	}
}

// Parameters echoes the evaluated configuration.
type Parameters struct {
	NumPlaces          int    `json:"num_places"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	TransportMode      string `json:"transport_mode"`
	NumRandomSolutions int    `json:"num_random_solutions"`
}

// AlgorithmSolution holds the planner's scores and the schedule they were
// computed from.
type AlgorithmSolution struct {
	Scores   map[string]float64 `json:"scores"`
	Schedule []trip.Event       `json:"schedule"`
}

// BaselineStats summarizes one metric across the baseline sample.
type BaselineStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Quartiles are the 25th, 50th and 75th percentiles of one metric across
// the baseline sample.
type Quartiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// RandomSolutions aggregates the baseline sample per metric.
type RandomSolutions struct {
	Statistics  map[string]BaselineStats `json:"statistics"`
	Percentiles map[string]Quartiles     `json:"percentiles"`
}

// Significance is the z-score of the planner against the baseline
// distribution for one metric.
type Significance struct {
	ZScore        float64 `json:"z_score"`
	IsSignificant bool    `json:"is_significant"`
}

// ComparativeAnalysis ranks the planner inside the baseline sample.
type ComparativeAnalysis struct {
	RankingPercentile       map[string]float64      `json:"ranking_percentile"`
	StatisticalSignificance map[string]Significance `json:"statistical_significance"`
}

// Result is the full evaluation report for one scenario.
type Result struct {
	Success        bool                `json:"success"`
	Error          string              `json:"error,omitempty"`
	EvaluationTime string              `json:"evaluation_time"`
	Parameters     Parameters          `json:"parameters"`
	Algorithm      AlgorithmSolution   `json:"algorithm_solution"`
	Random         RandomSolutions     `json:"random_solutions"`
	Comparative    ComparativeAnalysis `json:"comparative_analysis"`
}

// Pipeline evaluates planner output against randomized baselines.
type Pipeline struct {
	service *schedule.Service
	opts    Options
}

// NewPipeline wires an evaluation pipeline around a planner service.
func NewPipeline(service *schedule.Service, opts Options) *Pipeline {
	return &Pipeline{service: service, opts: opts.withDefaults()}
}

// Evaluate plans the scenario once, draws the configured number of random
// schedules, scores both sides and ranks the planner among the baselines.
// A planner or generator failure is reported inside the Result; the error
// return is reserved for context cancellation.
func (p *Pipeline) Evaluate(ctx context.Context, scn Scenario) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Infof(ctx, "Evaluate: scenario %q with %d baselines", scn.Name, p.opts.NumRandomSolutions)

	res := &Result{
		EvaluationTime: time.Now().Format(evalTimeLayout),
		Parameters: Parameters{
			NumPlaces:          len(scn.Places),
			StartDate:          scn.StartDate,
			EndDate:            scn.EndDate,
			TransportMode:      scn.TransportMode,
			NumRandomSolutions: p.opts.NumRandomSolutions,
		},
	}

	resp, err := p.service.GenerateSchedule(ctx, scn.request(), rand.New(rand.NewSource(p.opts.Seed)))
	if err != nil {
		res.Error = fmt.Sprintf("algorithm failed: %v", err)
		return res, nil
	}
	res.Algorithm = AlgorithmSolution{
		Scores:   NewMetrics(resp.Events).Scores(),
		Schedule: resp.Events,
	}

	gen, err := NewRandomGenerator(ctx, scn.request(), rand.New(rand.NewSource(p.opts.Seed+1)))
	if err != nil {
		res.Error = fmt.Sprintf("baseline generator failed: %v", err)
		return res, nil
	}

	baselines := p.sampleBaselines(ctx, gen)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(baselines) == 0 {
		res.Error = "no baseline solutions produced"
		return res, nil
	}

	res.Random = summarizeBaselines(baselines)
	res.Comparative = compare(res.Algorithm.Scores, baselines)
	res.Success = true
	return res, nil
}

// sampleBaselines draws and scores the baseline schedules concurrently.
// Each draw gets its own seed and its own result slot, so the returned
// sample is identical no matter how the goroutines interleave.
func (p *Pipeline) sampleBaselines(ctx context.Context, gen *RandomGenerator) []map[string]float64 {
	n := p.opts.NumRandomSolutions
	slots := make([]map[string]float64, n)
	sem := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			resp := gen.Generate(rand.New(rand.NewSource(p.opts.Seed + 2 + int64(i))))
			if !resp.Success {
				return
			}
			slots[i] = NewMetrics(resp.Events).Scores()
		}(i)
	}
	wg.Wait()

	scores := make([]map[string]float64, 0, n)
	for _, s := range slots {
		if s != nil {
			scores = append(scores, s)
		}
	}
	return scores
}

// summarizeBaselines reduces the baseline sample to per-metric statistics
// and quartiles.
func summarizeBaselines(baselines []map[string]float64) RandomSolutions {
	statistics := make(map[string]BaselineStats, len(MetricNames))
	percentiles := make(map[string]Quartiles, len(MetricNames))
	for _, name := range MetricNames {
		values := metricColumn(baselines, name)
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		bs := BaselineStats{
			Mean: stat.Mean(values, nil),
			Min:  sorted[0],
			Max:  sorted[len(sorted)-1],
		}
		if len(values) > 1 {
			bs.StdDev = stat.StdDev(values, nil)
		}
		statistics[name] = bs
		percentiles[name] = Quartiles{
			P25: quantile(sorted, 0.25),
			P50: quantile(sorted, 0.50),
			P75: quantile(sorted, 0.75),
		}
	}
	return RandomSolutions{Statistics: statistics, Percentiles: percentiles}
}

// quantile returns the p-th quantile of sorted values, interpolating
// linearly between the two closest ranks.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// compare ranks the planner's scores inside the baseline sample. The
// percentile counts strictly worse baselines; significance entries are
// omitted when the baseline spread is zero.
func compare(algorithm map[string]float64, baselines []map[string]float64) ComparativeAnalysis {
	ranking := make(map[string]float64, len(MetricNames))
	significance := make(map[string]Significance)
	for _, name := range MetricNames {
		values := metricColumn(baselines, name)
		below := 0
		for _, v := range values {
			if v < algorithm[name] {
				below++
			}
		}
		ranking[name] = 100 * float64(below) / float64(len(values))

		if len(values) > 1 {
			mean := stat.Mean(values, nil)
			sd := stat.StdDev(values, nil)
			if sd > 0 {
				z := (algorithm[name] - mean) / sd
				significance[name] = Significance{ZScore: z, IsSignificant: math.Abs(z) > 1.96}
			}
		}
	}
	return ComparativeAnalysis{RankingPercentile: ranking, StatisticalSignificance: significance}
}

func metricColumn(scores []map[string]float64, name string) []float64 {
	column := make([]float64, len(scores))
	for i, s := range scores {
		column[i] = s[name]
	}
	return column
}
