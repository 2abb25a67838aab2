package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/TomTonic/idrpseudo"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// logger is replaced in PersistentPreRunE once --verbose is known.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "idrpseudo",
	Short: "Compute mixture pseudo-values for ranks",
	Long: `idrpseudo maps ranks to pseudo-values by inverting the CDF of a mixture of a standard
normal noise component and a N(mu, sigma) signal component with weight lambda.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute loads an optional .env file, runs the root command and exits with status 1 on error.
func Execute() {
	_ = godotenv.Load() // a missing .env is fine
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	def := idrpseudo.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.Float64("mu", 0, "mean of the signal component")
	pf.Float64("sigma", 1, "standard deviation of the signal component")
	pf.Float64("lambda", 0.5, "weight of the signal component")
	pf.String("strategy", string(def.Strategy), "root finder: bracketing, halley or newton")
	pf.Float64("lower", def.Bracket.Lower, "lower end of the search bracket")
	pf.Float64("upper", def.Bracket.Upper, "upper end of the search bracket")
	pf.Float64("tolerance", def.Tolerance, "absolute tolerance of the bracketing solver")
	pf.Int("max-iterations", def.MaxIterations, "iteration cap of the accelerated solvers")
	pf.Int("workers", def.Workers, "number of goroutines solving ranks")
	pf.Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("IDRPSEUDO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"mu", "sigma", "lambda", "strategy", "lower", "upper", "tolerance", "max-iterations", "workers", "verbose"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func mixtureParams() idrpseudo.MixtureParams {
	return idrpseudo.MixtureParams{
		Mu:     viper.GetFloat64("mu"),
		Sigma:  viper.GetFloat64("sigma"),
		Lambda: viper.GetFloat64("lambda"),
	}
}

func engineConfig() (idrpseudo.Config, error) {
	cfg := idrpseudo.DefaultConfig()
	strategy, err := idrpseudo.ParseStrategy(viper.GetString("strategy"))
	if err != nil {
		return cfg, err
	}
	cfg.Strategy = strategy
	cfg.Bracket = idrpseudo.Bracket{Lower: viper.GetFloat64("lower"), Upper: viper.GetFloat64("upper")}
	cfg.Tolerance = viper.GetFloat64("tolerance")
	cfg.MaxIterations = viper.GetInt("max-iterations")
	cfg.Workers = viper.GetInt("workers")
	cfg.Logger = logger
	return cfg, cfg.Validate()
}
