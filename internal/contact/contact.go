// Package contact validates and (pretends to) deliver contact form messages.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const DefaultDelay = 2 * time.Second

// Form is the contact form payload.
type Form struct {
	Name    string `form:"name" json:"name" binding:"required,min=2"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Subject string `form:"subject" json:"subject" binding:"required,min=5"`
	Message string `form:"message" json:"message" binding:"required,min=10"`
}

// Normalize trims surrounding whitespace from every field.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
}

var fieldMessages = map[string]map[string]string{
	"Name": {
		"required": "Name is required",
		"min":      "Name must be at least 2 characters",
	},
	"Email": {
		"required": "Email is required",
		"email":    "Please enter a valid email",
	},
	"Subject": {
		"required": "Subject is required",
		"min":      "Subject must be at least 5 characters",
	},
	"Message": {
		"required": "Message is required",
		"min":      "Message must be at least 10 characters",
	},
}

// FieldErrors maps form field names to a user-facing message.
type FieldErrors map[string]string

// Describe turns a binding error into field messages. It returns nil when err
// is not a validation error.
func Describe(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		key := strings.ToLower(fe.Field())
		if _, seen := out[key]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[key] = msg
	}
	return out
}

// Submitter delivers a validated form.
type Submitter interface {
	Submit(ctx context.Context, f Form) error
}

// Simulated waits Delay and logs the message instead of sending it.
type Simulated struct {
	Delay time.Duration
	Log   *zap.Logger
}

func (s Simulated) Submit(ctx context.Context, f Form) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	if s.Log != nil {
		s.Log.Info("contact form submitted",
			zap.String("name", f.Name),
			zap.String("email", f.Email),
			zap.String("subject", f.Subject),
			zap.Int("message_length", len(f.Message)),
		)
	}
	return nil
}
