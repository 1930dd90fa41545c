package slot

import "errors"

var (
	ErrSelectionNotIdle     = errors.New("selection already started")
	ErrSelectionNotDragging = errors.New("selection is not being dragged")
)

type SelectionState int

const (
	Idle SelectionState = iota
	Dragging
	Committed
	Cancelled
)

func (s SelectionState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Selection is the drag-to-select state of a calendar grid. Values are
// immutable: every transition returns a new Selection.
type Selection struct {
	state   SelectionState
	anchor  Instant
	current Instant
}

func (s Selection) State() SelectionState { return s.state }

func (s Selection) Anchor() Instant { return s.anchor }

func (s Selection) Current() Instant { return s.current }

func (s Selection) Begin(at Instant) (Selection, error) {
	if s.state == Dragging {
		return s, ErrSelectionNotIdle
	}
	return Selection{state: Dragging, anchor: at, current: at}, nil
}

func (s Selection) Move(to Instant) (Selection, error) {
	if s.state != Dragging {
		return s, ErrSelectionNotDragging
	}
	return Selection{state: Dragging, anchor: s.anchor, current: to}, nil
}

// Interval covers every selected slot; the end is one slot past the last one
// so that a single-cell selection is still a non-empty interval.
func (s Selection) Interval() Interval {
	lo, hi := s.anchor, s.current
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	return Interval{Start: lo, End: hi.Next()}
}

func (s Selection) Commit() (Selection, Interval, error) {
	if s.state != Dragging {
		return s, Interval{}, ErrSelectionNotDragging
	}
	iv := s.Interval()
	return Selection{state: Committed, anchor: s.anchor, current: s.current}, iv, nil
}

func (s Selection) Cancel() Selection {
	return Selection{state: Cancelled}
}
