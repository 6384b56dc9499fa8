package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"almostcircle/internal/filestore"
)

func newFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Read and write text files",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "read FILE",
			Short: "Print a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return filestore.ReadFile(cmd.OutOrStdout(), args[0])
			},
		},
		&cobra.Command{
			Use:   "write FILE TEXT",
			Short: "Replace a file with TEXT and print the character count",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := filestore.WriteFile(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "append FILE TEXT",
			Short: "Append TEXT to a file and print the character count",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := filestore.AppendWrite(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			},
		},
	)
	return cmd
}
