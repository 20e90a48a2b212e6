// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/craque/apuracao"
	"github.com/danielhkuo/craque/auth"
	"github.com/danielhkuo/craque/db"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/store"
	"github.com/danielhkuo/craque/timings"
)

type dbFlags struct {
	url    string
	dbType string
}

func newRootCmd() *cobra.Command {
	conn := &dbFlags{}
	root := &cobra.Command{
		Use:           "craque-admin",
		Short:         "Craque da Semana administration",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&conn.url, "database-url", "d", os.Getenv("DATABASE_URL"), "Database connection string or SQLite path")
	root.PersistentFlags().StringVarP(&conn.dbType, "db-type", "t", envOr("DATABASE_TYPE", db.SQLite), "Database type (postgres, sqlite)")

	root.AddCommand(playerCmd(conn))
	root.AddCommand(listaCmd(conn))
	root.AddCommand(apurarCmd(conn))
	root.AddCommand(weekCmd())
	return root
}

// --------------------------------------------------------------------------
// player command
// --------------------------------------------------------------------------

func playerCmd(conn *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
	}
	cmd.AddCommand(playerAddCmd(conn))
	cmd.AddCommand(playerListCmd(conn))
	return cmd
}

func playerAddCmd(conn *dbFlags) *cobra.Command {
	var (
		p         models.Player
		password  string
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p.Nome == "" || p.Apelido == "" || p.Email == "" || password == "" {
				return fmt.Errorf("--nome, --apelido, --email and --password are required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			p.PasswordHash = hash
			if imagePath != "" {
				if p.Image, err = os.ReadFile(imagePath); err != nil {
					return fmt.Errorf("read image: %w", err)
				}
			}

			return withStore(conn, func(ctx context.Context, st *store.Store) error {
				id, err := st.CreatePlayer(ctx, p)
				if err != nil {
					return fmt.Errorf("create player %s: %w", p.Email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "player %d created (%s)\n", id, p.Apelido)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&p.Nome, "nome", "", "Full name")
	cmd.Flags().StringVar(&p.Apelido, "apelido", "", "Nickname")
	cmd.Flags().StringVar(&p.Email, "email", "", "Login email, matched against attendance")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().BoolVar(&p.Admin, "admin", false, "Grant admin access")
	cmd.Flags().StringVar(&imagePath, "image", "", "Profile image file")
	return cmd
}

func playerListCmd(conn *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(conn, func(ctx context.Context, st *store.Store) error {
				players, err := st.ListPlayers(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tAPELIDO\tNOME\tEMAIL\tADMIN")
				for _, p := range players {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", p.ID, p.Apelido, p.Nome, p.Email, p.Admin)
				}
				return tw.Flush()
			})
		},
	}
}

// --------------------------------------------------------------------------
// lista command
// --------------------------------------------------------------------------

func listaCmd(conn *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lista",
		Short: "Manage the lista extra",
	}
	cmd.AddCommand(listaAddCmd(conn))
	return cmd
}

func listaAddCmd(conn *dbFlags) *cobra.Command {
	var (
		playerID int64
		date     string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Make a player eligible as if they attended at --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID <= 0 {
				return fmt.Errorf("--player is required")
			}
			at, err := parseTime(date)
			if err != nil {
				return err
			}
			return withStore(conn, func(ctx context.Context, st *store.Store) error {
				id, err := st.AddListaExtra(ctx, playerID, at)
				if err != nil {
					return err
				}
				first := timings.WeekID(at) + 1
				fmt.Fprintf(cmd.OutOrStdout(), "lista extra %d: player %d at %s (%s), eligible for weeks %d-%d\n",
					id, playerID, at.Format(time.RFC3339), humanize.Time(at), first, first+timings.EligibilityWeeks-1)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&playerID, "player", 0, "Player ID")
	cmd.Flags().StringVar(&date, "date", "", "Entry date, RFC3339 (default now)")
	return cmd
}

// --------------------------------------------------------------------------
// apurar command
// --------------------------------------------------------------------------

func apurarCmd(conn *dbFlags) *cobra.Command {
	var (
		weekID int
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "apurar",
		Short: "Tally a week and print its ranking",
		Long: "Tally a week without waiting for publication. Open ballots of the " +
			"week are closed, so weeks still being voted need --force.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if weekID < 0 {
				return fmt.Errorf("--week is required")
			}
			if !timings.ValidWeekID(weekID) {
				return fmt.Errorf("--week must be at most %d", timings.MaxWeekID)
			}
			now := time.Now()
			if end := timings.EndVoting(timings.RefPointFromID(weekID)); now.Before(end) && !force {
				return fmt.Errorf("voting for week %d ends %s, use --force to tally now", weekID, humanize.Time(end))
			}
			return withStore(conn, func(ctx context.Context, st *store.Store) error {
				start := time.Now()
				r, err := apuracao.NewService(st).GetOrCreate(ctx, weekID, now)
				if err != nil {
					return fmt.Errorf("apuracao of week %d: %w", weekID, err)
				}
				printRanking(cmd, weekID, r)
				logger.Info("apuracao finished", "week_id", weekID, "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&weekID, "week", -1, "Week ID")
	cmd.Flags().BoolVar(&force, "force", false, "Tally a week whose voting has not ended")
	return cmd
}

func printRanking(cmd *cobra.Command, weekID int, r models.Ranking) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Semana %d (%s), %s votes\n",
		weekID, timings.RefPointFromID(weekID).Format("2006-01-02"), humanize.Comma(int64(r.Votes)))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tNOME\tMEDIA\tVOTOS\tDESVIO")
	for _, e := range r.Entries {
		desvio := "-"
		if e.DesvioPadrao != nil {
			desvio = humanize.FtoaWithDigits(*e.DesvioPadrao, 3)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", e.Pos, e.Nome, humanize.FtoaWithDigits(e.Media, 3), e.Votos, desvio)
	}
	tw.Flush()
}

// --------------------------------------------------------------------------
// week command
// --------------------------------------------------------------------------

func weekCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the week and its windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime(at)
			if err != nil {
				return err
			}
			w := timings.Window(t)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "week\t%d\n", w.WeekID)
			for _, row := range []struct {
				name string
				t    time.Time
			}{
				{"ref point", w.RefPoint},
				{"eligible from", w.StartEligibleCheck},
				{"eligible until", w.EndEligibleCheck},
				{"create ballot until", w.EndCreateBallot},
				{"voting until", w.EndVoting},
				{"publish at", w.PublishAt},
			} {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", row.name, row.t.Format(time.RFC3339), humanize.RelTime(row.t, t, "ago", "from now"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Instant, RFC3339 (default now)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles the DB connection and context cancellation.
func withStore(conn *dbFlags, fn func(ctx context.Context, st *store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if conn.url == "" {
		return fmt.Errorf("database URL required (use -d or DATABASE_URL env)")
	}
	dbConn, err := db.Open(ctx, conn.dbType, conn.url)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbConn.Close()

	return fn(ctx, store.New(dbConn))
}

func parseTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want RFC3339: %w", s, err)
	}
	return t.UTC(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
