package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"almostcircle/internal/netclient"
)

func (a *app) client() *netclient.Client {
	return netclient.NewClient(a.cfg.Client.Timeout.Duration(), a.cfg.Client.UserAgent)
}

// argOr returns args[0], or def when no argument was given
func argOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

func (a *app) newHTTPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Small HTTP client tools",
	}

	var characterID int
	count := &cobra.Command{
		Use:   "count URL",
		Short: "Count the films at URL that feature a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client().CountCharacterFilms(cmd.Context(), args[0], characterID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	count.Flags().IntVar(&characterID, "character", 18, "character id")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status [URL]",
			Short: "Fetch a status page and describe its body",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := a.client().Fetch(cmd.Context(), argOr(args, a.cfg.Client.StatusURL))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Body response:\n\t- type: %T\n\t- content: %s\n", string(resp.Body), resp.Body)
				return nil
			},
		},
		&cobra.Command{
			Use:   "header URL",
			Short: "Print the X-Request-Id header of the response",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.client().RequestID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "post-email URL EMAIL",
			Short: "POST an email form field and print the body",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				body, err := a.client().PostEmail(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), body)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get URL",
			Short: "Print the body, or the error code for statuses of 400 and above",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				body, err := a.client().Body(cmd.Context(), args[0])
				var httpErr *netclient.HTTPError
				if errors.As(err, &httpErr) {
					fmt.Fprintln(cmd.OutOrStdout(), httpErr)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), body)
				return nil
			},
		},
		&cobra.Command{
			Use:   "code URL",
			Short: "Print the response status code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := a.client().StatusCode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "code: %d\n", code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "search [LETTER]",
			Short: "Search users by letter",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client().SearchUser(cmd.Context(), a.cfg.Client.SearchURL, argOr(args, ""))
				switch {
				case errors.Is(err, netclient.ErrNoResult):
					fmt.Fprintln(cmd.OutOrStdout(), "No result")
				case errors.Is(err, netclient.ErrInvalidJSON):
					fmt.Fprintln(cmd.OutOrStdout(), "Not a valid JSON")
				case err != nil:
					return err
				default:
					fmt.Fprintln(cmd.OutOrStdout(), res)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "github USER TOKEN",
			Short: "Print the GitHub account id for a user and token",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.client().GitHubUserID(cmd.Context(), a.cfg.Client.GitHubAPI, args[0], args[1])
				if errors.Is(err, netclient.ErrNoResult) {
					fmt.Fprintln(cmd.OutOrStdout(), "No result")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "film ID",
			Short: "Print the title of a film",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid film id %q", args[0])
				}
				title, err := a.client().FilmTitle(cmd.Context(), a.cfg.Client.FilmsURL, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), title)
				return nil
			},
		},
		count,
		&cobra.Command{
			Use:   "store URL FILE",
			Short: "Write the body of URL to FILE",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := a.client().StoreBody(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d characters written to %s\n", n, args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "tasks URL",
			Short: "Print completed task counts per user id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				counts, err := a.client().CompletedTasks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := json.Marshal(counts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
	)
	return cmd
}
