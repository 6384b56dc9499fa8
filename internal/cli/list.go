package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"almostcircle/internal/listutil"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List helpers",
	}

	ints := func(run func(cmd *cobra.Command, list []int) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			list, err := parseInts(args)
			if err != nil {
				return err
			}
			return run(cmd, list)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "reversed INT...",
			Short: "Print integers one per line in reverse order",
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				return listutil.PrintReversed(cmd.OutOrStdout(), list)
			}),
		},
		&cobra.Command{
			Use:   "sorted INT...",
			Short: "Print a sorted copy of the integers",
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				return listutil.PrintSorted(cmd.OutOrStdout(), list)
			}),
		},
		&cobra.Command{
			Use:   "peak INT...",
			Short: "Print a peak of the list",
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				if peak, ok := listutil.FindPeak(list); ok {
					fmt.Fprintln(cmd.OutOrStdout(), peak)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "None")
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "second INT...",
			Short: "Print the second biggest integer, 0 for fewer than two",
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				n, _ := listutil.SecondBiggest(list)
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "factorial N",
			Short: "Print N!",
			Args:  cobra.ExactArgs(1),
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				fmt.Fprintln(cmd.OutOrStdout(), listutil.Factorial(list[0]))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "replace INDEX ELEM INT...",
			Short: "Print the list with the element at INDEX replaced",
			Args:  cobra.MinimumNArgs(2),
			RunE: ints(func(cmd *cobra.Command, list []int) error {
				out := listutil.NewInList(list[2:], list[0], list[1])
				data, err := json.Marshal(out)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}),
		},
		&cobra.Command{
			Use:     "safe-print LIST_JSON X",
			Short:   "Print the integers among the first X elements",
			Example: `  circlectl list safe-print '[1, 2, "a", 3]' 4`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := parseJSONList(args[0])
				if err != nil {
					return err
				}
				x, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("x must be an integer")
				}
				n, err := listutil.SafePrintIntegers(cmd.OutOrStdout(), list, x)
				if err != nil && !errors.Is(err, listutil.ErrIndexOutOfRange) {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "nb_print: %d\n", n)
				return err
			},
		},
		&cobra.Command{
			Use:     "divide A_JSON B_JSON N",
			Short:   "Divide two lists element by element",
			Example: `  circlectl list divide '[10, 8, 4]' '[2, 4, 0]' 4`,
			Args:    cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := parseJSONList(args[0])
				if err != nil {
					return err
				}
				b, err := parseJSONList(args[1])
				if err != nil {
					return err
				}
				n, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("n must be an integer")
				}
				data, err := json.Marshal(listutil.ListDivision(cmd.OutOrStdout(), a, b, n))
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

func parseInts(args []string) ([]int, error) {
	list := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		list[i] = n
	}
	return list, nil
}

// parseJSONList decodes a JSON array keeping whole numbers as ints
func parseJSONList(raw string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var list []any
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("expected a JSON list: %w", err)
	}
	for i, v := range list {
		num, ok := v.(json.Number)
		if !ok {
			continue
		}
		if n, err := num.Int64(); err == nil {
			list[i] = int(n)
		} else if f, err := num.Float64(); err == nil {
			list[i] = f
		}
	}
	return list, nil
}
