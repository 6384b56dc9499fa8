package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"almostcircle/internal/domain"
	"almostcircle/internal/service"
)

func (a *app) newStatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "states",
		Short: "Query and modify the states and cities tables",
	}

	list := func(fetch func(ctx context.Context, svc *service.StateService, args []string) ([]domain.State, error)) func(*cobra.Command, []string) error {
		return a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
			states, err := fetch(cmd.Context(), svc, args)
			if err != nil {
				return err
			}
			printStates(cmd.OutOrStdout(), states)
			return nil
		})
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every state ordered by id",
			Args:  cobra.NoArgs,
			RunE: list(func(ctx context.Context, svc *service.StateService, _ []string) ([]domain.State, error) {
				return svc.List(ctx)
			}),
		},
		&cobra.Command{
			Use:   "prefix PREFIX",
			Short: "List states whose name starts with PREFIX",
			Args:  cobra.ExactArgs(1),
			RunE: list(func(ctx context.Context, svc *service.StateService, args []string) ([]domain.State, error) {
				return svc.ListByPrefix(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "search NAME",
			Short: "List states named exactly NAME",
			Args:  cobra.ExactArgs(1),
			RunE: list(func(ctx context.Context, svc *service.StateService, args []string) ([]domain.State, error) {
				return svc.Search(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "contains SUBSTR",
			Short: "List states whose name contains SUBSTR",
			Args:  cobra.ExactArgs(1),
			RunE: list(func(ctx context.Context, svc *service.StateService, args []string) ([]domain.State, error) {
				return svc.ListContaining(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "first",
			Short: "Print the state with the lowest id",
			Args:  cobra.NoArgs,
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, _ []string) error {
				state, err := svc.First(cmd.Context())
				if errors.Is(err, domain.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), state)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "id NAME",
			Short: "Print the id of the state named NAME",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
				id, err := svc.IDByName(cmd.Context(), args[0])
				if errors.Is(err, domain.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not found")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "insert NAME [CITY...]",
			Short: "Insert a state, with its cities, and print its id",
			Args:  cobra.MinimumNArgs(1),
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
				var (
					state *domain.State
					err   error
				)
				if len(args) > 1 {
					state, err = svc.CreateWithCities(cmd.Context(), args[0], args[1:])
				} else {
					state, err = svc.Create(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), state.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename the state with the given id",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				return svc.Rename(cmd.Context(), id, args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete SUBSTR",
			Short: "Delete every state whose name contains SUBSTR",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
				n, err := svc.DeleteContaining(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d deleted\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "cities",
			Short: "List every city with its state",
			Args:  cobra.NoArgs,
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, _ []string) error {
				cities, err := svc.Cities(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range cities {
					fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "cities-of STATE",
			Short: "Print the city names of STATE on one line",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, args []string) error {
				names, err := svc.CityNamesOf(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, ", "))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "with-cities",
			Short: "List every state followed by its cities",
			Args:  cobra.NoArgs,
			RunE: a.withStates(func(cmd *cobra.Command, svc *service.StateService, _ []string) error {
				states, err := svc.WithCities(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, s := range states {
					fmt.Fprintln(out, s)
					for _, c := range s.Cities {
						fmt.Fprintf(out, "\t%d: %s\n", c.ID, c.Name)
					}
				}
				return nil
			}),
		},
	)
	return cmd
}

// withStates opens the database for the duration of one command
func (a *app) withStates(run func(cmd *cobra.Command, svc *service.StateService, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo, err := a.openRepo()
		if err != nil {
			return err
		}
		defer repo.Close()
		return run(cmd, service.NewStateService(repo, nil), args)
	}
}

func printStates(w io.Writer, states []domain.State) {
	for _, s := range states {
		fmt.Fprintln(w, s)
	}
}
