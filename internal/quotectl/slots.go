package quotectl

import (
	"fmt"
	"io"
	"time"

	"houseboat/pkg/slot"

	"github.com/spf13/cobra"
)

// maxListedSlots bounds the slots command to roughly a year.
const maxListedSlots = 732

type slotRow struct {
	Index   int64     `json:"index"`
	Instant string    `json:"instant"`
	Time    time.Time `json:"time"`
}

func slotsCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the half-day slots between two instants",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := slot.Parse(from)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			end, err := slot.Parse(to)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--end %s is before --start %s", end, start)
			}
			iv := slot.Interval{Start: start, End: end}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rows, err := listSlots(iv, cfg.FleetLocation)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return printSlots(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&from, "start", "", "First slot, e.g. 2025-06-11:AM")
	cmd.Flags().StringVar(&to, "end", "", "Last slot, inclusive")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// listSlots walks [Start, End] inclusive.
func listSlots(iv slot.Interval, loc *time.Location) ([]slotRow, error) {
	if iv.Slots()+1 > maxListedSlots {
		return nil, fmt.Errorf("range covers %d slots, at most %d can be listed", iv.Slots()+1, maxListedSlots)
	}
	var rows []slotRow
	for at := iv.Start; !at.After(iv.End); at = at.Next() {
		rows = append(rows, slotRow{Index: at.Index(), Instant: at.String(), Time: at.ToTime(loc)})
	}
	return rows, nil
}

func printSlots(w io.Writer, rows []slotRow) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "INDEX\tSLOT\tLOCAL TIME")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Index, r.Instant, r.Time.Format("Mon 02 Jan 15:04 MST"))
	}
	return tw.Flush()
}
