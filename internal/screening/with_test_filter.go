package screening

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/headhunter"
)

type withTestFilter struct {
	disabled bool
	reason   string
}

// NewWithTest creates a step that removes vacancies requiring a test before applying.
func NewWithTest() Filter {
	return &withTestFilter{}
}

func (f *withTestFilter) Name() string { return "with_test" }

func (f *withTestFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *withTestFilter) IsEnabled() bool { return !f.disabled }

func (f *withTestFilter) Validate(*Config) error { return nil }

func (f *withTestFilter) Apply(_ context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	initial := v.Len()
	excluded := v.ExcludeWithTest()
	if len(excluded) > 0 {
		deps.Logger.Info("excluding vacancies with tests",
			zap.Strings("excluded_vacancies", excluded),
			zap.Int("vacancies_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *withTestFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
