package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"stockwatch/internal/app"
	"stockwatch/internal/core"
	"stockwatch/internal/report"

	"github.com/spf13/cobra"
)

var (
	alertsRecentDays int
	alertsXLSX       string
	alertsTable      bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts <company-id>",
	Short: "Print the low-stock report for a company",
	Long: `Print the low-stock report for a company as JSON, as a table, or
write it to an XLSX workbook.

Example:
  stockwatch alerts 1
  stockwatch alerts 1 --recent-days 14 --table
  stockwatch alerts 1 --xlsx low-stock.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runAlerts,
}

func init() {
	alertsCmd.Flags().IntVar(&alertsRecentDays, "recent-days", -1,
		"sales lookback window in days (default: alerts.default_recent_days)")
	alertsCmd.Flags().StringVar(&alertsXLSX, "xlsx", "",
		"write the report to this XLSX file instead of stdout")
	alertsCmd.Flags().BoolVar(&alertsTable, "table", false,
		"print a table instead of JSON")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	companyID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid company id %q", args[0])
	}

	req := app.LowStockRequest{CompanyID: companyID}
	if cmd.Flags().Changed("recent-days") {
		req.RecentDays = &alertsRecentDays
	}

	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	result, err := b.svc.LowStockAlerts(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case alertsXLSX != "":
		if err := report.SaveLowStock(alertsXLSX, result); err != nil {
			return err
		}
		cmd.Printf("Wrote %d alert(s) to %s\n", result.TotalAlerts, alertsXLSX)
	case alertsTable:
		printLowStock(os.Stdout, companyID, result)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return nil
}

func printLowStock(w io.Writer, companyID int, result *core.AlertReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 96))
	fmt.Fprintf(w, "  LOW STOCK : Company %d\n", companyID)
	fmt.Fprintln(w, strings.Repeat("=", 96))
	if len(result.Alerts) == 0 {
		fmt.Fprintln(w, "  No low-stock alerts.")
		fmt.Fprintln(w, strings.Repeat("=", 96))
		return
	}
	fmt.Fprintf(w, "  %-14s %-24s %-16s %7s %9s %8s  %-14s\n",
		"SKU", "PRODUCT", "WAREHOUSE", "STOCK", "THRESHOLD", "DAYS", "SUPPLIER")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, a := range result.Alerts {
		days := "-"
		if a.DaysUntilStockout != nil {
			days = strconv.Itoa(*a.DaysUntilStockout)
		}
		supplier := ""
		if a.Supplier != nil {
			supplier = a.Supplier.Name
		}
		fmt.Fprintf(w, "  %-14s %-24s %-16s %7d %9d %8s  %-14s\n",
			truncate(a.SKU, 14), truncate(a.ProductName, 24), truncate(a.WarehouseName, 16),
			a.CurrentStock, a.Threshold, days, truncate(supplier, 14))
	}
	fmt.Fprintln(w, strings.Repeat("=", 96))
	fmt.Fprintf(w, "  %d alert(s)\n", result.TotalAlerts)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
