package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/planner"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func printPlayer(w io.Writer, s *models.GameState) {
	p := s.Player
	successColor.Fprintf(w, "%s, level %d (%s/%s exp)\n", p.Name, p.Level, formatAmount(p.Exp), formatAmount(p.ExpToNextLevel))
	fmt.Fprintf(w, "Gold: %s\n", formatAmount(s.Stored(models.Gold)))
}

func printResources(w io.Writer, s *models.GameState) {
	titleColor.Fprintln(w, "\nResources")
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Stored", "Max", "Per Sec", "Per Click", "Sells For", "Auto"}),
	)
	for _, n := range s.ResourceNames() {
		r := s.Resources[n]
		if !r.IsUnlocked {
			continue
		}
		limit := "∞"
		if r.Bounded() {
			limit = formatAmount(*r.MaxStorage)
		}
		sells, auto := "", ""
		if r.Sellable() {
			sells = fmt.Sprintf("%sg +%sxp", formatAmount(r.SellValues.Gold), formatAmount(r.SellValues.Exp))
			if r.IsAutoSelling {
				auto = "on"
			}
		}
		_ = table.Append([]string{
			formatName(string(n)),
			formatAmount(r.Stored),
			limit,
			formatAmount(r.ProductionValues.PerSecond * r.ProductionValues.Multiplier),
			formatAmount(r.ProductionValues.PerClick),
			sells,
			auto,
		})
	}
	_ = table.Render()
}

func printBuildings(w io.Writer, s *models.GameState) {
	titleColor.Fprintln(w, "\nBuildings")
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Building", "Owned", "Next Costs", "Adds", "Uses"}),
	)
	for _, n := range s.BuildingNames() {
		b := s.Buildings[n]
		if !b.IsUnlocked {
			continue
		}
		_ = table.Append([]string{
			formatName(string(n)),
			strconv.Itoa(b.Amount),
			formatTable(b.CostValues),
			formatTable(b.IncreaseValues),
			formatTable(b.PerSecondResourceUsed),
		})
	}
	_ = table.Render()
}

func printUpgrades(w io.Writer, s *models.GameState) {
	var shown bool
	for _, n := range s.UpgradeNames() {
		u := s.Upgrades[n]
		if !u.IsUnlocked {
			continue
		}
		if !shown {
			titleColor.Fprintln(w, "\nUpgrades")
			shown = true
		}
		mark := "  "
		if u.IsPurchased {
			mark = "✓ "
		}
		fmt.Fprintf(w, "   %s%s (%s): %s gold\n", mark, u.Title, n, formatAmount(u.Cost))
	}
}

func printPlan(w io.Writer, plan *planner.Plan) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Time", "Action", "Target", "Amount", "Level", "Gold"}),
	)
	for i, a := range plan.Actions {
		amount := ""
		if a.Kind == planner.ActionSell {
			amount = formatAmount(a.Amount)
		}
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			formatTime(a.Time),
			string(a.Kind),
			formatName(a.Target),
			amount,
			strconv.Itoa(a.Level),
			formatAmount(a.Gold),
		})
	}
	_ = table.Render()

	final := plan.Final
	fmt.Fprintf(w, "\n%d purchases, %d clicks, level %d, %s gold at the end\n",
		len(plan.Purchases()), plan.Clicks, final.Player.Level, formatAmount(final.Stored(models.Gold)))
}

// printNextAction prints one machine-friendly line: kind:target:seconds
func printNextAction(w io.Writer, plan *planner.Plan) {
	next, ok := plan.Next()
	if !ok {
		fmt.Fprintln(w, "none")
		return
	}
	fmt.Fprintf(w, "%s:%s:%d\n", next.Kind, next.Target, next.Time)
}

func formatTime(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTable(t models.ScalingTable) string {
	parts := make([]string, 0, len(t))
	for _, n := range t.Names() {
		parts = append(parts, fmt.Sprintf("%s %s", formatAmount(t[n].Current), formatName(string(n))))
	}
	return strings.Join(parts, ", ")
}

// formatName turns SMALL_HOUSE into Small House
func formatName(name string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(name), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
