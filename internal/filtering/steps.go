package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/opportunity"
)

type searchFilter struct {
	query string
}

// NewSearch creates a filter that keeps opportunities whose title,
// organization, location or any skill contains the query.
func NewSearch() Filter {
	return &searchFilter{}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Disable(string) {}

func (f *searchFilter) IsEnabled() bool { return true }

func (f *searchFilter) Validate(cfg *Config) error {
	f.query = ""
	if cfg != nil {
		f.query = strings.ToLower(strings.TrimSpace(cfg.Query))
	}
	return nil
}

func (f *searchFilter) Apply(_ context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	if f.query == "" {
		return v, Step{Initial: v.Len(), Left: v.Len()}, nil
	}
	return keep(deps, f.Name(), v, func(o *opportunity.Opportunity) bool {
		return matchesQuery(o, f.query)
	})
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

func matchesQuery(o *opportunity.Opportunity, query string) bool {
	for _, field := range []string{o.Title, o.Organization, o.Location} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, skill := range o.Skills {
		if strings.Contains(strings.ToLower(skill), query) {
			return true
		}
	}
	return false
}

type organizationFilter struct {
	organization string
}

// NewOrganization creates a filter that keeps a single organization.
func NewOrganization() Filter {
	return &organizationFilter{}
}

func (f *organizationFilter) Name() string { return "organization" }

func (f *organizationFilter) Disable(string) {}

func (f *organizationFilter) IsEnabled() bool { return true }

func (f *organizationFilter) Validate(cfg *Config) error {
	f.organization = ""
	if cfg != nil {
		f.organization = strings.TrimSpace(cfg.Organization)
	}
	return nil
}

func (f *organizationFilter) Apply(_ context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	if f.organization == "" {
		return v, Step{Initial: v.Len(), Left: v.Len()}, nil
	}
	return keep(deps, f.Name(), v, func(o *opportunity.Opportunity) bool {
		return o.Organization == f.organization
	})
}

type modeFilter struct {
	mode opportunity.WorkMode
}

func NewMode() Filter {
	return &modeFilter{}
}

func (f *modeFilter) Name() string { return "mode" }

func (f *modeFilter) Disable(string) {}

func (f *modeFilter) IsEnabled() bool { return true }

func (f *modeFilter) Validate(cfg *Config) error {
	f.mode = ""
	if cfg == nil || strings.TrimSpace(cfg.Mode) == "" {
		return nil
	}
	mode, err := opportunity.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	f.mode = mode
	return nil
}

func (f *modeFilter) Apply(_ context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	if f.mode == "" {
		return v, Step{Initial: v.Len(), Left: v.Len()}, nil
	}
	return keep(deps, f.Name(), v, func(o *opportunity.Opportunity) bool {
		return strings.EqualFold(string(o.Mode), string(f.mode))
	})
}

type levelFilter struct {
	level opportunity.Level
}

func NewLevel() Filter {
	return &levelFilter{}
}

func (f *levelFilter) Name() string { return "level" }

func (f *levelFilter) Disable(string) {}

func (f *levelFilter) IsEnabled() bool { return true }

func (f *levelFilter) Validate(cfg *Config) error {
	f.level = ""
	if cfg == nil || strings.TrimSpace(cfg.Level) == "" {
		return nil
	}
	level, err := opportunity.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	f.level = level
	return nil
}

func (f *levelFilter) Apply(_ context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	if f.level == "" {
		return v, Step{Initial: v.Len(), Left: v.Len()}, nil
	}
	return keep(deps, f.Name(), v, func(o *opportunity.Opportunity) bool {
		return strings.EqualFold(string(o.Level), string(f.level))
	})
}

type openOnlyFilter struct {
	disabled bool
	reason   string
}

// NewOpenOnly creates a filter that drops opportunities past their deadline.
// It stays disabled unless the config asks for it.
func NewOpenOnly() Filter {
	return &openOnlyFilter{}
}

func (f *openOnlyFilter) Name() string { return "open_only" }

func (f *openOnlyFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *openOnlyFilter) IsEnabled() bool { return !f.disabled }

func (f *openOnlyFilter) Validate(cfg *Config) error {
	if cfg == nil || !cfg.OpenOnly {
		f.Disable("past deadlines requested")
	}
	return nil
}

func (f *openOnlyFilter) Apply(_ context.Context, deps Deps, v *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	now := deps.now()

	var unparsable []string
	for _, o := range v.Items {
		if _, err := o.DeadlineTime(); err != nil {
			unparsable = append(unparsable, o.ID)
		}
	}
	if deps.Logger != nil && len(unparsable) > 0 {
		deps.Logger.Warn("keeping opportunities with unparsable deadlines",
			zap.Strings("opportunities", unparsable),
		)
	}

	return keep(deps, f.Name(), v, func(o *opportunity.Opportunity) bool {
		return o.Open(now)
	})
}

func (f *openOnlyFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
