package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/TomTonic/idrpseudo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag changed by an earlier run back to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if f.Changed {
			require.NoError(t, f.Value.Set(f.DefValue), "flag %s", f.Name)
			f.Changed = false
		}
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_SubcommandsPresent(t *testing.T) {
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, want := range []string{"compute", "simulate", "bench"} {
		if !have[want] {
			t.Fatalf("missing subcommand %s", want)
		}
	}
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			check(sc)
		}
	}
	check(rootCmd)
}

func TestCompute_FromStdin(t *testing.T) {
	out, err := run(t, "2 0\n1\n", "compute", "--mu", "1", "--sigma", "1", "--lambda", "0.5", "--strategy", "bracketing", "--workers", "1")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	want, err := idrpseudo.ComputePseudoValues([]int{2, 0, 1}, 1, 1, 0.5)
	require.NoError(t, err)
	for i, line := range lines {
		got, err := strconv.ParseFloat(line, 64)
		require.NoError(t, err)
		assert.InDelta(t, want[i], got, 1e-9, "line %d", i)
	}
}

func TestCompute_Errors(t *testing.T) {
	_, err := run(t, "0 x", "compute", "--sigma", "1", "--lambda", "0.5", "--strategy", "bracketing")
	assert.ErrorContains(t, err, "rank 1")

	_, err = run(t, "0 1", "compute", "--sigma", "1", "--lambda", "0.5", "--strategy", "secant")
	assert.Error(t, err)

	_, err = run(t, "0 1", "compute", "--sigma", "0", "--lambda", "0.5", "--strategy", "bracketing")
	assert.Error(t, err)

	_, err = run(t, "", "compute", "--sigma", "1", "--strategy", "bracketing", "--input", "/nonexistent/ranks.txt")
	assert.ErrorContains(t, err, "opening ranks")
}

func TestCompute_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, err := run(t, "", "compute", "--sigma", "2", "--lambda", "0.9", "--input", "/nonexistent/ranks.txt")
	require.Error(t, err)

	// defaults again: stdin input, sigma 1, lambda 0.5
	out, err := run(t, "0 1 2", "compute", "--mu", "0")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	// both components are standard normal, so the middle rank maps to the median 0
	mid, err := strconv.ParseFloat(lines[1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0, mid, 1e-9)
}

func TestSimulate_PrintsRankPairs(t *testing.T) {
	out, err := run(t, "", "simulate", "--n", "50", "--mu", "2", "--sigma", "1", "--rho", "0.5", "--signal-fraction", "0.4", "--seed", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 50)
	seen := map[string]bool{}
	for _, line := range lines {
		cols := strings.Fields(line)
		require.Len(t, cols, 4, line)
		r, err := strconv.Atoi(cols[0])
		require.NoError(t, err)
		assert.True(t, r >= 0 && r < 50, "rank %d", r)
		seen[cols[0]] = true
	}
	assert.Len(t, seen, 50)
}

func TestReadRanks(t *testing.T) {
	ranks, err := readRanks(strings.NewReader(" 3\t1\n\n0 2 "))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 2}, ranks)

	ranks, err = readRanks(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ranks)
}

func TestWriteValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeValues(&buf, []float64{0.5, -1.25, 1e-12}))
	assert.Equal(t, "0.5\n-1.25\n1e-12\n", buf.String())
}
