package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"almostcircle/internal/filestore"
	"almostcircle/internal/textfmt"
)

func newArgsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "args [arg...]",
		Short: "Print the number of arguments and each argument",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), textfmt.FormatArgs(args))
			return err
		},
	}
}

func newAddItemCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add-item [item...]",
		Short: "Append arguments to a JSON list file",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := filestore.AddItems(file, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d items in %s\n", len(list), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "add_item.json", "JSON list file")
	return cmd
}
