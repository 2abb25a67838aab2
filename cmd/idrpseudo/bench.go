package main

import (
	"fmt"
	"time"

	"github.com/TomTonic/idrpseudo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare the bracketing solver with an accelerated one",
	Long: `Times --runs conversions of --n simulated ranks with the bracketing solver and with the
accelerated solver selected by --strategy (halley if --strategy is bracketing), then prints the
bootstrap confidence that the accelerated solver is faster by at least each listed speedup.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.Int("n", 10_000, "number of ranks per run")
	f.Int("runs", idrpseudo.MinimumDataPoints, "timed runs per solver")
	f.Uint64("reps", 10_000, "bootstrap replicates")
	f.Uint64("seed", 0, "random seed for simulation and bootstrap, 0 for a random one")
	f.Float64Slice("speedups", []float64{0, 0.1, 0.25, 0.5}, "relative speedups to test")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	n, _ := f.GetInt("n")
	runs, _ := f.GetInt("runs")
	reps, _ := f.GetUint64("reps")
	seed, _ := f.GetUint64("seed")
	speedups, _ := f.GetFloat64Slice("speedups")

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	p := mixtureParams()
	if err := p.Validate(); err != nil {
		return err
	}
	rep, err := idrpseudo.Simulate(n, idrpseudo.SimulationParams{Mu: p.Mu, Sigma: p.Sigma, SignalFraction: p.Lambda}, seed)
	if err != nil {
		return err
	}

	accCfg := cfg
	if accCfg.Strategy == idrpseudo.StrategyBracketing {
		accCfg.Strategy = idrpseudo.StrategyHalley
	}
	baseCfg := cfg
	baseCfg.Strategy = idrpseudo.StrategyBracketing

	baseline, err := idrpseudo.NewEngine(baseCfg)
	if err != nil {
		return err
	}
	accelerated, err := idrpseudo.NewEngine(accCfg)
	if err != nil {
		return err
	}

	logger.Info("timing solvers", zap.Int("ranks", n), zap.Int("runs", runs), zap.String("accelerated", string(accCfg.Strategy)))
	baseTimes, err := idrpseudo.TimeStrategy(baseline, rep.Ranks1, p, runs)
	if err != nil {
		return err
	}
	accTimes, err := idrpseudo.TimeStrategy(accelerated, rep.Ranks1, p, runs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range []struct {
		name  string
		times []float64
	}{{string(baseCfg.Strategy), baseTimes}, {string(accCfg.Strategy), accTimes}} {
		s := idrpseudo.SummarizeTimes(row.times)
		fmt.Fprintf(out, "%-11s median %v  mean %v  sd %v  (n=%d)\n", row.name,
			time.Duration(s.Median), time.Duration(s.Mean), time.Duration(s.StdDev), s.Runs)
	}

	conf, err := idrpseudo.CompareStrategies(accTimes, baseTimes, speedups, reps, seed)
	if err != nil {
		return err
	}
	for _, c := range conf {
		fmt.Fprintf(out, "%s faster by >= %.0f%%: confidence %.4f\n", accCfg.Strategy, c.RelativeSpeedup*100, c.Confidence)
	}
	return nil
}
