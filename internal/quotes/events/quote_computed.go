package events

import (
	"fmt"
	"time"

	"houseboat/pkg/kafka"
	"houseboat/pkg/model"
	"houseboat/pkg/money"
)

const (
	EventTypeQuoteComputed = "quote.computed"
	SchemaVersion          = "1"
	Source                 = "houseboat-quotes"
)

// QuoteComputed summarizes a quote for downstream consumers. Full
// breakdowns stay with the caller.
type QuoteComputed struct {
	QuoteID     string          `json:"quote_id"`
	Mode        model.QuoteMode `json:"mode"`
	Outcome     model.Outcome   `json:"outcome"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	GuestCount  int             `json:"guest_count"`
	UnitCount   int             `json:"unit_count"`
	Options     int             `json:"options"`
	BestTotal   money.Cents     `json:"best_total"`
	BestDeposit money.Cents     `json:"best_deposit"`
	Evaluated   int64           `json:"evaluated,omitempty"`
	Warnings    int             `json:"warnings"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// NewQuoteComputed builds the event from a result. The best option is the
// first available candidate or the first package, as ranked by the engine.
func NewQuoteComputed(result *model.QuoteResult, at time.Time) QuoteComputed {
	ev := QuoteComputed{
		QuoteID:    result.ID,
		Mode:       result.Mode,
		Outcome:    result.Outcome,
		Start:      result.Interval.Start.String(),
		End:        result.Interval.End.String(),
		GuestCount: result.GuestCount,
		UnitCount:  result.UnitCount,
		Evaluated:  result.Evaluated,
		Warnings:   len(result.Warnings),
		ComputedAt: at.UTC(),
	}

	switch result.Mode {
	case model.ModePackage:
		ev.Options = len(result.Packages)
		if len(result.Packages) > 0 {
			ev.BestTotal = result.Packages[0].Breakdown.Total
			ev.BestDeposit = result.Packages[0].Breakdown.Deposit
		}
	default:
		found := false
		for _, c := range result.Candidates {
			if !c.Available {
				continue
			}
			ev.Options++
			if !found {
				ev.BestTotal = c.Breakdown.Total
				ev.BestDeposit = c.Breakdown.Deposit
				found = true
			}
		}
	}
	return ev
}

// Message wraps the event for the quotes topic, keyed by quote id.
func (e QuoteComputed) Message(correlationID string) (kafka.Message, error) {
	if e.QuoteID == "" {
		return kafka.Message{}, fmt.Errorf("quote id is required")
	}
	return kafka.NewMessage().
		WithKey(e.QuoteID).
		WithValue(e).
		WithEventType(EventTypeQuoteComputed).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(correlationID).
		WithTimestamp(e.ComputedAt).
		Build()
}

// DecodeQuoteComputed reads an event published by Message.
func DecodeQuoteComputed(msg kafka.Message) (QuoteComputed, error) {
	var ev QuoteComputed
	if t := msg.GetEventType(); t != "" && t != EventTypeQuoteComputed {
		return ev, kafka.NewPermanentError(fmt.Sprintf("unexpected event type %q", t), nil)
	}
	if err := msg.DecodeValue(&ev); err != nil {
		return ev, err
	}
	return ev, nil
}
