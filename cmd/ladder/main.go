// Command ladder evaluates multimode bosonic ladder-operator expressions.
//
// Usage:
//
//	ladder eval "a+_a" "a+_a"      # normal-ordered product of the arguments
//	ladder kerr "a+_a(+)b+_b" -n 2 # Kerr coefficients of the n-th power
//	ladder repl                    # interactive loop
//	ladder serve --port 8080       # HTTP tool server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qctools/ladder"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Symbolic normal-ordering calculator for bosonic ladder operators",
	Long: `ladder expands products of multimode bosonic ladder-operator expressions
and rewrites them into normal (Wick) order using [a, a†] = 1.

Grammar: creation "a+", annihilation "a", multiplication "_", addition "(+)",
complex coefficients in front with "j" as the imaginary unit, e.g. 2a+_a(+)3+4j.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbose {
			ladder.SetDebugLogger(logger)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPR [EXPR...]",
	Short: "Parse the arguments and print their normal-ordered product",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := evalProduct(args)
		if err != nil {
			return err
		}
		printExpression(result)
		return nil
	},
}

var kerrN int

var kerrCmd = &cobra.Command{
	Use:   "kerr EXPR",
	Short: "Print the self- and cross-Kerr coefficients of EXPR (or EXPR^n)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := ladder.Parse(args[0])
		if err != nil {
			return err
		}
		if kerrN > 1 {
			e = e.Power(kerrN)
		}
		for _, row := range e.KerrReport() {
			fmt.Printf("%-20s %-14s %s\n", row.Label+":", row.Key, ladder.FormatCoefficient(row.Value))
		}
		return nil
	},
}

func evalProduct(exprs []string) (*ladder.Expression, error) {
	result, err := ladder.Parse(exprs[0])
	if err != nil {
		return nil, err
	}
	for _, src := range exprs[1:] {
		e, err := ladder.Parse(src)
		if err != nil {
			return nil, err
		}
		result = result.Multiply(e)
	}
	return result, nil
}

func printExpression(e *ladder.Expression) {
	if e.Len() == 0 {
		fmt.Println("0")
		return
	}
	for _, key := range e.Keys() {
		c := e.Coefficient(key)
		if c == 0 {
			continue
		}
		label := key
		if label == "" {
			label = "constant"
		}
		fmt.Printf("%-20s %s\n", label+":", ladder.FormatCoefficient(c))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (traces term expansion)")
	kerrCmd.Flags().IntVarP(&kerrN, "power", "n", 1, "raise the expression to this power first")
	rootCmd.AddCommand(evalCmd, kerrCmd, replCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
