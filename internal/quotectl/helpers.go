package quotectl

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"houseboat/pkg/model"
	"houseboat/pkg/money"
	"houseboat/pkg/sanitizer"
	"houseboat/pkg/slot"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func parseInterval(start, end string) (slot.Interval, error) {
	s, err := slot.Parse(start)
	if err != nil {
		return slot.Interval{}, fmt.Errorf("--start: %w", err)
	}
	e, err := slot.Parse(end)
	if err != nil {
		return slot.Interval{}, fmt.Errorf("--end: %w", err)
	}
	iv := slot.Interval{Start: s, End: e}
	if err := iv.Validate(); err != nil {
		return slot.Interval{}, err
	}
	return iv, nil
}

// parseExtras reads repeated "id=qty" flags. A bare id means one. Repeated
// ids are summed.
func parseExtras(values []string) ([]model.SelectedExtra, error) {
	var out []model.SelectedExtra
	index := make(map[string]int)
	for _, v := range values {
		id, qtyStr, found := strings.Cut(v, "=")
		id = sanitizer.SanitizeID(id)
		if id == "" {
			return nil, fmt.Errorf("--extra %q: missing id", v)
		}
		qty := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qtyStr))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("--extra %q: quantity must be a positive integer", v)
			}
			qty = n
		}
		if i, ok := index[id]; ok {
			out[i].Quantity += qty
			continue
		}
		index[id] = len(out)
		out = append(out, model.SelectedExtra{ID: id, Quantity: qty})
	}
	return out, nil
}

// parseDiscount reads "percent:10", "flat:50" or a bare amount, which uses
// the configured default mode.
func parseDiscount(value string) (*model.Discount, error) {
	if value == "" {
		return nil, nil
	}
	var mode model.DiscountMode
	amount := value
	if m, a, found := strings.Cut(value, ":"); found {
		mode = model.DiscountMode(strings.ToLower(strings.TrimSpace(m)))
		amount = a
		if mode != model.DiscountPercent && mode != model.DiscountFlat {
			return nil, fmt.Errorf("--discount %q: mode must be percent or flat", value)
		}
	}
	cents, err := money.Parse(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("--discount %q: %w", value, err)
	}
	if cents < 0 {
		return nil, fmt.Errorf("--discount %q: must not be negative", value)
	}
	return &model.Discount{Mode: mode, Value: cents}, nil
}

func outcomeHint(outcome model.Outcome) string {
	switch outcome {
	case model.OutcomeNoCandidates:
		return "no boat is free for these dates"
	case model.OutcomeInsufficientPool:
		return "not enough boats are free: try fewer boats or other dates"
	case model.OutcomeNoCapacityMatch:
		return "no combination fits the group: try a different number of boats"
	case model.OutcomePoolTooLarge:
		return "too many free boats to combine: narrow the request"
	default:
		return ""
	}
}

func availabilityLabel(c model.Candidate) string {
	if !c.Available {
		return "no"
	}
	return fmt.Sprintf("%d/%d", c.TotalUnits-c.BusyUnits, c.TotalUnits)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
