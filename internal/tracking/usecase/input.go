package usecase

import (
	"errors"
	"time"

	"go-shortview/internal/tracking/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxDescriptionLength = 255
	maxLifetime          = 100 * 365 * 24 * time.Hour
)

// LifetimeInput is a lifetime split into the components owners type in.
type LifetimeInput struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (l LifetimeInput) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Days, validation.Min(0), validation.Max(36500)),
		validation.Field(&l.Hours, validation.Min(0), validation.Max(876000)),
		validation.Field(&l.Minutes, validation.Min(0), validation.Max(52560000)),
		validation.Field(&l.Seconds, validation.Min(0), validation.Max(int64(3153600000))),
	)
}

// Duration sums the components. Call Validate first.
func (l LifetimeInput) Duration() time.Duration {
	return time.Duration(l.Days)*24*time.Hour +
		time.Duration(l.Hours)*time.Hour +
		time.Duration(l.Minutes)*time.Minute +
		time.Duration(l.Seconds)*time.Second
}

// LifetimeFromDuration splits d the way LifetimeInput expects it.
func LifetimeFromDuration(d time.Duration) LifetimeInput {
	total := int64(d / time.Second)
	return LifetimeInput{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// CreateArtifactInput is what an owner submits to create a pixel or a link.
// A nil Lifetime falls back to the owner's default lifetime.
type CreateArtifactInput struct {
	Kind        domain.Kind    `json:"kind"`
	Description string         `json:"description"`
	Destination string         `json:"destination"`
	Lifetime    *LifetimeInput `json:"lifetime"`
	NeverExpire bool           `json:"never_expire"`
	Notify      string         `json:"notify"`
}

func (in CreateArtifactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Kind, validation.Required, validation.In(domain.KindPixel, domain.KindLink)),
		validation.Field(&in.Description, validation.RuneLength(0, maxDescriptionLength)),
		validation.Field(&in.Destination,
			validation.When(in.Kind == domain.KindLink, validation.Required),
			validation.When(in.Kind == domain.KindPixel, validation.Empty),
		),
		validation.Field(&in.Notify,
			validation.When(in.Kind == domain.KindPixel, validation.In("", string(domain.NotifyInherit)).
				Error("pixels follow the owner default")),
		),
	)
}

// PreferencesInput replaces an owner's preferences. An empty DefaultNotify keeps
// the current value.
type PreferencesInput struct {
	NeverExpire        bool          `json:"never_expire"`
	Lifetime           LifetimeInput `json:"lifetime"`
	HideExpired        bool          `json:"hide_expired"`
	DeleteExpired      bool          `json:"delete_expired"`
	DefaultNotify      string        `json:"default_notify"`
	ReceiveNewsletters bool          `json:"receive_newsletters"`
}

// ListOptions tunes ListArtifacts.
type ListOptions struct {
	// IncludeHidden lists expired artifacts even when the owner hides them.
	IncludeHidden bool
}

// lifetimeOf resolves the lifetime requested by the input, or ok=false when the
// owner default applies.
func lifetimeOf(neverExpire bool, l *LifetimeInput) (time.Duration, bool, error) {
	if neverExpire {
		return 0, true, nil
	}
	if l == nil {
		return 0, false, nil
	}
	if err := l.Validate(); err != nil {
		return 0, false, prefixed("lifetime", toValidationError(err))
	}
	d := l.Duration()
	if d > maxLifetime {
		return 0, false, domain.NewValidationError("lifetime", "must not exceed 100 years")
	}
	return d, true, nil
}

// toValidationError converts ozzo-validation errors into a domain.ValidationError.
// Internal validation errors are returned unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	flatten("", errs, fields)
	return &domain.ValidationError{Fields: fields}
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for name, err := range errs {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = err.Error()
	}
}

func prefixed(prefix string, err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[prefix+"."+k] = v
	}
	return &domain.ValidationError{Fields: fields}
}
