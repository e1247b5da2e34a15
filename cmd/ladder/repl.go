package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/qctools/ladder"
)

const historyFile = ".ladder_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive normal-ordering loop",
	Long: `Reads one expression per line and prints its parsed, collected form.
Separate factors with " * " to multiply:

	> a+_a * a+_a
	a+_a:      1
	a+_a+_a_a: 1

Type :quit to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runRepl()
		return nil
	},
}

func runRepl() {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("ladder> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			switch strings.ToLower(input) {
			case ":quit", ":q":
				return
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		result, err := evalReplLine(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		printExpression(result)
		ln.AppendHistory(input)
	}
}

func evalReplLine(input string) (*ladder.Expression, error) {
	var factors []string
	for _, part := range strings.Split(input, " * ") {
		factors = append(factors, strings.TrimSpace(part))
	}
	return evalProduct(factors)
}
