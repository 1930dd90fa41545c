package quotectl

import (
	"fmt"
	"io"
	"strings"

	"houseboat/pkg/model"
	"houseboat/pkg/money"

	"github.com/spf13/cobra"
)

func quoteCmd(opts *options) *cobra.Command {
	var (
		snapshotPath string
		start        string
		end          string
		guests       int
		units        int
		extras       []string
		discount     string
		paid         string
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay against the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := parseInterval(start, end)
			if err != nil {
				return err
			}
			selected, err := parseExtras(extras)
			if err != nil {
				return err
			}
			disc, err := parseDiscount(discount)
			if err != nil {
				return err
			}
			var amountPaid money.Cents
			if paid != "" {
				if amountPaid, err = money.Parse(paid); err != nil {
					return fmt.Errorf("--paid: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng := newEngine(cfg)
			snap, err := loadSnapshot(cmd.Context(), cfg, eng, snapshotPath, iv)
			if err != nil {
				return err
			}

			result, err := eng.Quote(snap, &model.QuoteRequest{
				Start:              iv.Start,
				End:                iv.End,
				GuestCount:         guests,
				UnitCount:          units,
				SelectedExtras:     selected,
				Discount:           disc,
				AmountPaid:         amountPaid,
				IncludeUnavailable: all,
			})
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printQuote(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Fleet snapshot JSON file (default: read from MongoDB)")
	cmd.Flags().StringVar(&start, "start", "", "Check-in slot, e.g. 2025-06-11:PM")
	cmd.Flags().StringVar(&end, "end", "", "Check-out slot, e.g. 2025-06-14:AM")
	cmd.Flags().IntVar(&guests, "guests", 1, "Number of guests")
	cmd.Flags().IntVar(&units, "units", 1, "Number of boats")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "Extra as id=qty (repeatable)")
	cmd.Flags().StringVar(&discount, "discount", "", "Discount as percent:10, flat:50 or a bare amount")
	cmd.Flags().StringVar(&paid, "paid", "", "Amount already paid")
	cmd.Flags().BoolVar(&all, "all", false, "Include classes with no free boat")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func printQuote(w io.Writer, result *model.QuoteResult) error {
	fmt.Fprintf(w, "Stay: %s to %s (%d nights)\n", result.Interval.Start, result.Interval.End, result.Interval.Nights())
	fmt.Fprintf(w, "Guests: %d  Boats: %d\n", result.GuestCount, result.UnitCount)
	if result.Mode == model.ModePackage && result.Evaluated > 0 {
		fmt.Fprintf(w, "Combinations: %d from %d free boats\n", result.Evaluated, result.PoolSize)
	}
	if hint := outcomeHint(result.Outcome); hint != "" {
		fmt.Fprintln(w, hint)
		return nil
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	if result.Mode == model.ModePackage {
		fmt.Fprintln(tw, "#\tBOATS\tCLASSES\tCAPACITY\tTOTAL\tDEPOSIT\tBALANCE")
		for i, p := range result.Packages {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%s\t%s\t%s\n",
				i+1,
				strings.Join(p.Units, ","),
				strings.Join(p.ClassIDs, ","),
				p.OptimalCapacity, p.MaxCapacity,
				p.Breakdown.Total, p.Breakdown.Deposit, p.Breakdown.BalanceDue,
			)
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "CLASS\tBOAT\tFREE\tCAPACITY\tNIGHTS\tTOTAL\tDEPOSIT\tBALANCE\tSEASON")
	for _, c := range result.Candidates {
		b := c.Breakdown
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\t%d+%d\t%s\t%s\t%s\t%s\n",
			c.ClassID,
			dash(c.UnitID),
			availabilityLabel(c),
			c.OptimalCapacity, c.MaxCapacity,
			b.WeekdayNights, b.WeekendNights,
			b.Total, b.Deposit, b.BalanceDue,
			dash(b.Season),
		)
	}
	return tw.Flush()
}
