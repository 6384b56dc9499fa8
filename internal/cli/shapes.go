package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"almostcircle/internal/domain"
	"almostcircle/internal/filestore"
)

func (a *app) newShapesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "Save, load and draw shapes in the data directory",
	}
	cmd.AddCommand(
		a.newShapesSaveCmd(),
		a.newShapesLoadCmd(),
		a.newShapesDisplayCmd(),
		a.newShapesCSVCmd(),
	)
	return cmd
}

func (a *app) store() *filestore.Store {
	return filestore.New(a.cfg.Data.Dir)
}

func (a *app) newShapesSaveCmd() *cobra.Command {
	var csv bool

	cmd := &cobra.Command{
		Use:   "save KIND [ATTRS_JSON...]",
		Short: "Replace <Kind>.json with shapes built from JSON attribute objects",
		Example: `  circlectl shapes save rectangle '{"width": 3, "height": 2}' '{"id": 7, "width": 1, "height": 1, "x": 2}'
  circlectl shapes save square`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}

			shapes := make([]domain.Shape, 0, len(args)-1)
			for i, raw := range args[1:] {
				var attrs map[string]any
				if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
					return fmt.Errorf("shape %d: %w", i+1, err)
				}
				s, err := domain.Create(kind, attrs)
				if err != nil {
					return fmt.Errorf("shape %d: %w", i+1, err)
				}
				shapes = append(shapes, s)
			}

			store := a.store()
			if csv {
				err = store.SaveShapesCSV(kind, shapes)
			} else {
				err = store.SaveShapes(kind, shapes)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range shapes {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&csv, "csv", false, "write <Kind>.csv instead")
	return cmd
}

func (a *app) loadShapes(kind domain.Kind, csv bool) ([]domain.Shape, error) {
	if csv {
		return a.store().LoadShapesCSV(kind)
	}
	return a.store().LoadShapes(kind)
}

func (a *app) newShapesLoadCmd() *cobra.Command {
	var csv bool

	cmd := &cobra.Command{
		Use:   "load KIND",
		Short: "Print the shapes stored in <Kind>.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			shapes, err := a.loadShapes(kind, csv)
			if err != nil {
				return err
			}
			for _, s := range shapes {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&csv, "csv", false, "read <Kind>.csv instead")
	return cmd
}

func (a *app) newShapesDisplayCmd() *cobra.Command {
	var csv bool

	cmd := &cobra.Command{
		Use:   "display KIND",
		Short: "Draw the stored shapes with '#'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			shapes, err := a.loadShapes(kind, csv)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, s := range shapes {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, s)
				if err := s.Display(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&csv, "csv", false, "read <Kind>.csv instead")
	return cmd
}

func (a *app) newShapesCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv KIND",
		Short: "Copy the shapes of <Kind>.json into <Kind>.csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			store := a.store()
			shapes, err := store.LoadShapes(kind)
			if err != nil {
				return err
			}
			if err := store.SaveShapesCSV(kind, shapes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d shapes written to %s\n", len(shapes), store.Path(kind, "csv"))
			return nil
		},
	}
}
