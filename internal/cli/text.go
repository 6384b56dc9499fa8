package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"almostcircle/internal/textfmt"
)

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Text formatting helpers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "square SIZE",
			Short: "Print a square of '#'",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				size, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("size must be an integer")
				}
				return textfmt.PrintSquare(cmd.OutOrStdout(), size)
			},
		},
		&cobra.Command{
			Use:   "indent TEXT...",
			Short: "Break text into lines after '.', '?' and ':'",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return textfmt.TextIndentation(cmd.OutOrStdout(), strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "name FIRST [LAST]",
			Short: "Print 'My name is FIRST LAST'",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return textfmt.SayMyName(cmd.OutOrStdout(), args[0], argOr(args[1:], ""))
			},
		},
		&cobra.Command{
			Use:   "add A [B]",
			Short: "Add two numbers as integers, B defaults to 98",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				b := any(98)
				if len(args) == 2 {
					b = numberArg(args[1])
				}
				sum, err := textfmt.AddInteger(numberArg(args[0]), b)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sum)
				return nil
			},
		},
		&cobra.Command{
			Use:     "matrix MATRIX_JSON DIV",
			Short:   "Divide every element of a matrix, rounding to 2 decimals",
			Example: `  circlectl text matrix '[[1, 2, 3], [4, 5, 6]]' 3`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var matrix [][]any
				if err := json.Unmarshal([]byte(args[0]), &matrix); err != nil {
					return fmt.Errorf("matrix must be a JSON list of lists: %w", err)
				}
				result, err := textfmt.MatrixDivided(matrix, numberArg(args[1]))
				if err != nil {
					return err
				}
				data, err := json.Marshal(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
	)
	numericArgs(cmd)
	return cmd
}

// numberArg turns a numeric argument into an int or float64. Anything else
// stays a string so the callee reports the type error.
func numberArg(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// numericArgs turns off flag parsing below cmd so that negative numbers such
// as -1 reach RunE as arguments instead of failing as unknown shorthand flags
func numericArgs(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		sub.DisableFlagParsing = true
	}
}
