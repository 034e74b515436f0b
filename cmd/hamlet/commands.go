package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/planner"
	"github.com/napolitain/hamlet/internal/saves"
)

// action applies a change to the loaded game
type action func(s *session, args []string) (*models.GameState, error)

// mutation loads the slot, applies fn, saves and prints a summary
func mutation(opts *options, s3 saves.S3Config, fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, opts, s3)
		if err != nil {
			return err
		}
		defer s.close()

		next, err := fn(s, args)
		if err != nil {
			return err
		}
		changed := next != s.state
		s.state = next
		if err := s.save(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !changed {
			warnColor.Fprintln(out, "Nothing changed (locked or nothing to do)")
		}
		if !opts.quiet {
			printPlayer(out, s.state)
		}
		return nil
	}
}

// name normalizes user input like "small-house" to SMALL_HOUSE
func name(arg string) string {
	r := strings.NewReplacer("-", "_", " ", "_")
	return strings.ToUpper(r.Replace(strings.TrimSpace(arg)))
}

func newCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	var playerName string
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game in the slot",
		Args:  cobra.NoArgs,
		RunE: mutation(opts, s3, func(s *session, _ []string) (*models.GameState, error) {
			if !s.fresh && !force {
				return nil, fmt.Errorf("slot %s already holds a game, use --force to overwrite it", s.slot)
			}
			return s.econ.SetName(s.econ.NewGame(), playerName)
		}),
	}
	cmd.Flags().StringVar(&playerName, "name", models.DefaultPlayerName, "Player name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing game")
	return cmd
}

func statusCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resources, buildings and upgrades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, s3)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			if s.fresh {
				infoColor.Fprintf(out, "No game in slot %s yet, showing a new one\n\n", s.slot)
			}
			printPlayer(out, s.state)
			if opts.quiet {
				return nil
			}
			printResources(out, s.state)
			printBuildings(out, s.state)
			printUpgrades(out, s.state)
			return nil
		},
	}
}

func clickCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "click RESOURCE",
		Short: "Gather a resource by hand",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			st := s.state
			for i := 0; i < count; i++ {
				next, err := s.econ.Click(st, models.ResourceName(name(args[0])))
				if err != nil {
					return nil, err
				}
				st = next
			}
			return st, nil
		}),
	}
	cmd.Flags().IntVarP(&count, "times", "n", 1, "Number of clicks")
	return cmd
}

func sellCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sell RESOURCE AMOUNT|all",
		Short: "Sell a resource for gold",
		Args:  cobra.ExactArgs(2),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			res := models.ResourceName(name(args[0]))
			var amount float64
			if strings.EqualFold(args[1], "all") {
				amount = s.state.Stored(res)
			} else {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid amount %q", args[1])
				}
				amount = v
			}
			return s.econ.Sell(s.state, res, amount)
		}),
	}
}

func buyCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "buy BUILDING",
		Short: "Buy a building",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			st := s.state
			for i := 0; i < count; i++ {
				next, err := s.econ.BuyBuilding(st, models.BuildingName(name(args[0])))
				if err != nil {
					return nil, err
				}
				st = next
			}
			return st, nil
		}),
	}
	cmd.Flags().IntVarP(&count, "times", "n", 1, "Number of units to buy")
	return cmd
}

func demolishCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demolish BUILDING",
		Short: "Sell one unit of a building back",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			return s.econ.SellBuilding(s.state, models.BuildingName(name(args[0])))
		}),
	}
}

func upgradeCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade UPGRADE",
		Short: "Buy an upgrade",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			return s.econ.BuyUpgrade(s.state, models.UpgradeName(name(args[0])))
		}),
	}
}

func renameCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Change the player name",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			return s.econ.SetName(s.state, args[0])
		}),
	}
}

func autoSellCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:       "autosell RESOURCE on|off",
		Short:     "Toggle selling a resource as soon as it is produced",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			var enabled bool
			switch strings.ToLower(args[1]) {
			case "on", "true":
				enabled = true
			case "off", "false":
			default:
				return nil, fmt.Errorf("expected on or off, got %q", args[1])
			}
			return s.econ.SetAutoSell(s.state, models.ResourceName(name(args[0])), enabled)
		}),
	}
}

// parseSeconds accepts a Go duration ("90s", "5m") or a bare number of seconds
func parseSeconds(arg string) (float64, error) {
	if v, err := strconv.ParseFloat(arg, 64); err == nil {
		return v, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", arg)
	}
	return d.Seconds(), nil
}

func tickCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tick DURATION",
		Short: "Let time pass (e.g. 30s, 5m, 120)",
		Args:  cobra.ExactArgs(1),
		RunE: mutation(opts, s3, func(s *session, args []string) (*models.GameState, error) {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return nil, err
			}
			return s.econ.Tick(s.state, seconds)
		}),
	}
}

func planCmd(opts *options, s3 saves.S3Config) *cobra.Command {
	var horizon time.Duration
	var clicks int
	var nextOnly bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Simulate ahead and suggest purchases",
		Long: `A greedy simulation that ticks the economy every second, clicks the
resources the next purchase is short of, sells surplus and buys the
building with the best return on investment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, s3)
			if err != nil {
				return err
			}
			defer s.close()

			p := planner.New(s.econ, planner.Options{Horizon: int(horizon.Seconds()), ClicksPerStep: clicks})
			plan, err := p.Plan(s.state)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if nextOnly {
				printNextAction(out, plan)
				return nil
			}
			if !opts.quiet {
				titleColor.Fprintf(out, "Plan for the next %s (%d clicks/s)\n\n", formatTime(plan.Horizon), clicks)
			}
			printPlan(out, plan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&horizon, "horizon", time.Hour, "How far ahead to simulate")
	cmd.Flags().IntVar(&clicks, "clicks", 1, "Manual clicks per simulated second")
	cmd.Flags().BoolVarP(&nextOnly, "next", "n", false, "Show only the next purchase")
	return cmd
}
