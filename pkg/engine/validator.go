package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"houseboat/pkg/model"
	"houseboat/pkg/money"
	"houseboat/pkg/slot"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

func newValidate() *validator.Validate {
	v := validator.New()
	// Instants are validated through their text form so that "required"
	// rejects the zero instant.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if i, ok := field.Interface().(slot.Instant); ok {
			return i.String()
		}
		return nil
	}, slot.Instant{})
	return v
}

// ValidateRequest checks the request shape and the interval. Unknown extras
// are reported here as well so that no computation starts on bad input.
func (e *Engine) ValidateRequest(req *model.QuoteRequest, extras []model.Extra) error {
	if req == nil {
		return invalid("request", "request is required")
	}
	if err := e.validate.Struct(req); err != nil {
		return translate(err)
	}
	iv := req.Interval()
	if err := iv.Validate(); err != nil {
		return invalid("end", "end must be after start")
	}
	if iv.Nights() <= 0 {
		return invalid("end", "stay must span at least one night")
	}

	var errs ValidationErrors
	known := make(map[string]struct{}, len(extras))
	for _, x := range extras {
		known[x.ID] = struct{}{}
	}
	for i, sel := range req.SelectedExtras {
		if _, ok := known[sel.ID]; !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("selected_extras[%d].id", i),
				Message: fmt.Sprintf("unknown extra %q", sel.ID),
			})
		}
	}
	if d := req.Discount; d != nil {
		mode := d.Mode
		if mode == "" {
			mode = e.calc.Config().DefaultDiscountMode
		}
		if mode == model.DiscountPercent && d.Value > money.FromUnits(100) {
			errs = append(errs, ValidationError{Field: "discount.value", Message: "percentage cannot exceed 100"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateSnapshot checks every record and that every unit belongs to a
// known class. It is meant for snapshots read from untrusted files.
func (e *Engine) ValidateSnapshot(snap *model.Snapshot) error {
	if snap == nil {
		return invalid("snapshot", "snapshot is required")
	}
	if err := e.validate.Struct(snap); err != nil {
		return translate(err)
	}
	classes := make(map[string]struct{}, len(snap.Classes))
	for _, c := range snap.Classes {
		classes[c.ID] = struct{}{}
	}
	var errs ValidationErrors
	for i, u := range snap.Units {
		if _, ok := classes[u.ClassID]; !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("units[%d].class_id", i),
				Message: fmt.Sprintf("unit %s references unknown class %s", u.ID, u.ClassID),
			})
		}
	}
	for i, r := range snap.Reservations {
		if err := r.Interval().Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("reservations[%d]", i),
				Message: fmt.Sprintf("reservation %s: %v", r.ID, err),
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return invalid("request", err.Error())
	}
	var out ValidationErrors
	for _, fe := range validationErrs {
		message := fe.Error()
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "gtefield":
			message = fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
		}
		out = append(out, ValidationError{Field: fe.Namespace(), Message: message})
	}
	return out
}
