package validation

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"recapcli/pkg/contracts/domain"
)

// RunRequest is the validated set of inputs for one report run.
type RunRequest struct {
	Range domain.DateRange `json:"range" validate:"required"`
	Files []string         `json:"files" validate:"required,min=1,dive,required"`
	Rate  float64          `json:"rate" validate:"required,gt=0"`
}

// RequestValidator validates run requests before any workbook work starts.
type RequestValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewRequestValidator creates a new request validator
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestValidator{
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (v *RequestValidator) WithClock(now func() time.Time) *RequestValidator {
	v.now = now
	return v
}

// Validate checks the request against all input rules: struct tags, date
// ordering, no future dates, and input file existence. The first violation
// is returned; nothing is mutated on failure.
func (v *RequestValidator) Validate(req RunRequest) error {
	if err := v.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid request: field %s failed rule %q", errs[0].Field(), errs[0].Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	if req.Range.Start.After(req.Range.End) {
		v.logger.Error("Start date is after end date",
			slog.String("start", req.Range.Start.Format(domain.CanonicalDateLayout)),
			slog.String("end", req.Range.End.Format(domain.CanonicalDateLayout)))
		return fmt.Errorf("start date must not be later than end date")
	}

	today := v.today()
	if req.Range.Start.After(today) || req.Range.End.After(today) {
		v.logger.Error("Future dates are not allowed",
			slog.String("start", req.Range.Start.Format(domain.CanonicalDateLayout)),
			slog.String("end", req.Range.End.Format(domain.CanonicalDateLayout)),
			slog.String("today", today.Format(domain.CanonicalDateLayout)))
		return fmt.Errorf("future dates are not allowed")
	}

	for _, path := range req.Files {
		if err := v.validateInputFile(path); err != nil {
			return err
		}
	}

	return nil
}

// validateInputFile checks that an input file exists and is a regular file.
func (v *RequestValidator) validateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("path", path))
		return fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a data file", path)
	}
	return nil
}

// today returns the current date truncated to midnight UTC.
func (v *RequestValidator) today() time.Time {
	n := v.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
