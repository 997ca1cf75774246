package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/rosterstore"
	"github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
	"github.com/riskibarqy/team-sheet/internal/usecase"
)

type rootOptions struct {
	dbPath string
	teamID string
}

type rosterFunc func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, args []string) error

func newRootCmd(logger *logging.Logger) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Edit a rugby team sheet kept in a local SQLite file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "rosters.db", "SQLite file holding the roster")
	root.PersistentFlags().StringVar(&opts.teamID, "team", "", "team id; empty edits the unscoped roster")

	run := func(fn rosterFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withRoster(cmd.Context(), opts, logger, func(ctx context.Context, svc *usecase.RosterService) error {
				return fn(ctx, cmd, svc, args)
			})
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a player and print its id",
			Args:  cobra.MinimumNArgs(1),
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, args []string) error {
				p, err := svc.AddPlayer(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:     "rm <player-id>",
			Aliases: []string{"delete"},
			Short:   "Delete a player",
			Args:    cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, args []string) error {
				return svc.DeletePlayer(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "rename <player-id> <name>",
			Short: "Rename a player",
			Args:  cobra.MinimumNArgs(2),
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, args []string) error {
				return svc.RenamePlayer(ctx, args[0], strings.Join(args[1:], " "))
			}),
		},
		&cobra.Command{
			Use:   "assign <player-id> <position-id>",
			Short: "Put a player in a position, moving out any current holder",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, args []string) error {
				_, err := svc.AssignPlayerToPosition(ctx, args[0], args[1])
				return err
			}),
		},
		&cobra.Command{
			Use:   "unassign <position-id>",
			Short: "Empty a position",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, args []string) error {
				return svc.UnassignPosition(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "toggle <position-id>",
			Short: "Enable or disable a position",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, args []string) error {
				pos, err := svc.TogglePositionDisabled(ctx, args[0])
				if err != nil {
					return err
				}
				state := "enabled"
				if pos.Disabled {
					state = "disabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", pos.ID, pos.Name, state)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Unassign every player",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, _ []string) error {
				return svc.ResetAssignments(ctx)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every player",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, _ *cobra.Command, svc *usecase.RosterService, _ []string) error {
				return svc.ClearPlayers(ctx)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every player with its position",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, _ []string) error {
				return writePlayers(cmd.OutOrStdout(), svc.Players(ctx))
			}),
		},
		&cobra.Command{
			Use:   "sheet",
			Short: "Print starters, substitutes and unassigned players",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, _ []string) error {
				return writeSheet(cmd.OutOrStdout(), svc.Sheet(ctx))
			}),
		},
		&cobra.Command{
			Use:   "export",
			Short: "Write the roster as CSV to stdout",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, _ []string) error {
				_, err := io.WriteString(cmd.OutOrStdout(), svc.ExportCSV(ctx))
				return err
			}),
		},
		&cobra.Command{
			Use:   "import <file|->",
			Short: "Merge players from a CSV file, or stdin with -",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc *usecase.RosterService, args []string) error {
				text, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				result, err := svc.ImportCSV(ctx, text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", result.Imported, result.Skipped)
				return nil
			}),
		},
	)

	return root
}

func withRoster(ctx context.Context, opts *rootOptions, logger *logging.Logger, fn func(context.Context, *usecase.RosterService) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	blobs, err := sqlite.Open(ctx, opts.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := blobs.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	namespace := ""
	if teamID := strings.TrimSpace(opts.teamID); teamID != "" {
		namespace = rosterstore.TeamNamespace(teamID)
	}

	svc := usecase.NewRosterService(rosterstore.NewLocal(blobs, namespace), id.NewUUIDGenerator(), logger)
	if err := svc.Load(ctx); err != nil {
		return err
	}
	if err := fn(ctx, svc); err != nil {
		return err
	}
	return svc.Close(ctx)
}

func readInput(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(raw), nil
}

func writePlayers(out io.Writer, players []player.Player) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION")
	for _, p := range players {
		pos := p.PositionID
		if pos == "" {
			pos = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, pos)
	}
	return tw.Flush()
}

func writeSheet(out io.Writer, sheet usecase.Sheet) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	writeSlots := func(title string, slots []roster.Slot) {
		fmt.Fprintln(tw, title)
		for _, slot := range slots {
			name := ""
			switch {
			case slot.Position.Disabled:
				name = "(disabled)"
			case slot.Filled:
				name = slot.Player.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", slot.Position.ID, slot.Position.Name, name)
		}
	}

	writeSlots("STARTERS", sheet.Starters)
	writeSlots("SUBSTITUTES", sheet.Substitutes)

	fmt.Fprintln(tw, "AVAILABLE")
	for _, p := range sheet.Available {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
	}
	return tw.Flush()
}
