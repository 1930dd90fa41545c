package quotectl

import (
	"fmt"
	"time"

	"houseboat/internal/quotes/repository"
	"houseboat/pkg/model"
	"houseboat/pkg/slot"

	"github.com/spf13/cobra"
)

type seasonOutput struct {
	Date   string `json:"date"`
	Season string `json:"season"`
}

func seasonCmd(opts *options) *cobra.Command {
	var (
		snapshotPath string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Show the tariff season of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			day := time.Now().In(cfg.FleetLocation)
			if date != "" {
				if day, err = time.Parse(slot.DateLayout, date); err != nil {
					return fmt.Errorf("--date: expected YYYY-MM-DD: %w", err)
				}
			}

			eng := newEngine(cfg)
			var seasons []model.TariffSeason
			if snapshotPath != "" {
				snap, err := readSnapshotFile(snapshotPath)
				if err != nil {
					return err
				}
				if err := eng.ValidateSnapshot(snap); err != nil {
					return fmt.Errorf("invalid snapshot: %w", err)
				}
				seasons = snap.Seasons
			} else {
				cfg.SetMongo()
				defer cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
				if seasons, err = repository.NewMongoFleetRepository(cfg).FindSeasons(cmd.Context()); err != nil {
					return err
				}
			}

			out := seasonOutput{Date: day.Format(slot.DateLayout), Season: eng.SeasonLabel(seasons, day)}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.Date, dash(out.Season))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Fleet snapshot JSON file (default: read from MongoDB)")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today in the fleet time zone)")
	return cmd
}
