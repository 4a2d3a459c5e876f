// Package filtering narrows the opportunity catalog for browsing.
package filtering

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/opportunity"
)

// Filter represents a single filtering step applied to opportunities.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Now    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the browse criteria consumed by the filters. Empty values
// leave the corresponding step a no-op.
type Config struct {
	Query        string
	Organization string
	Mode         string
	Level        string
	OpenOnly     bool
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Steps returns the browse filters in application order.
func Steps() []Filter {
	return []Filter{
		NewSearch(),
		NewOrganization(),
		NewMode(),
		NewLevel(),
		NewOpenOnly(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates and executes the enabled filters sequentially on a copy of v.
// The input collection is never modified.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, v *opportunity.Opportunities) (*opportunity.Opportunities, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	result := v.Clone()
	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, result)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		result = next
	}

	return result, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep applies a predicate and reports the step in the shared shape.
func keep(deps Deps, name string, v *opportunity.Opportunities, pred func(*opportunity.Opportunity) bool) (*opportunity.Opportunities, Step, error) {
	initial := v.Len()
	excluded := v.Keep(pred)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding opportunities",
			zap.String("filter", name),
			zap.Strings("excluded_opportunities", excluded),
			zap.Int("opportunities_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}
