package main

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/TomTonic/idrpseudo"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Convert ranks into pseudo-values",
	Long: `Reads whitespace-separated 0-indexed integer ranks from --input (default stdin) and
prints one pseudo-value per line, in input order.`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringP("input", "i", "-", "file with ranks, - for stdin")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	engine, err := idrpseudo.NewEngine(cfg)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if path, _ := cmd.Flags().GetString("input"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "opening ranks")
		}
		defer f.Close()
		in = f
	}
	ranks, err := readRanks(in)
	if err != nil {
		return err
	}
	logger.Debug("read ranks", zap.Int("count", len(ranks)))

	values, err := engine.ComputePseudoValues(ranks, mixtureParams())
	if err != nil {
		return err
	}
	return writeValues(cmd.OutOrStdout(), values)
}

func readRanks(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var ranks []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "rank %d", len(ranks))
		}
		ranks = append(ranks, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading ranks")
	}
	return ranks, nil
}

func writeValues(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		bw.WriteString(strconv.FormatFloat(v, 'g', 10, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
