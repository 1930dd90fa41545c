package quotectl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"houseboat/internal/quotes/events"
	"houseboat/pkg/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
)

func eventsCmd(opts *options) *cobra.Command {
	var (
		group         string
		fromBeginning bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail quote.computed events from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if fromBeginning {
				cfg.Kafka.ConsumerStartOffset = kafkago.FirstOffset
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			handler := eventPrinter(cmd.OutOrStdout(), opts.json, limit, cancel)
			consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.QuotesTopic, group, handler, cfg.Log)
			if err != nil {
				return err
			}
			defer consumer.Close()

			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Consumer group; empty tails without committing offsets")
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "Start from the oldest retained event")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many events (0 = no limit)")
	return cmd
}

// eventPrinter decodes each message and writes one line per event. It
// cancels the consumer once limit events were printed.
func eventPrinter(w io.Writer, asJSON bool, limit int, done context.CancelFunc) kafka.MessageHandler {
	seen := 0
	return func(ctx context.Context, msg kafka.Message) error {
		ev, err := events.DecodeQuoteComputed(msg)
		if err != nil {
			return err
		}
		if asJSON {
			if err := writeJSON(w, ev); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "%s  %s  %s  %s to %s  guests=%d boats=%d options=%d best=%s\n",
				ev.ComputedAt.Format("2006-01-02T15:04:05Z07:00"),
				dash(ev.QuoteID), ev.Outcome, ev.Start, ev.End,
				ev.GuestCount, ev.UnitCount, ev.Options, ev.BestTotal,
			)
		}
		seen++
		if limit > 0 && seen >= limit {
			done()
		}
		return nil
	}
}
