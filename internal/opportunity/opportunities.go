package opportunity

import "time"

type Opportunities struct {
	Items []*Opportunity
}

func New(items []*Opportunity) *Opportunities {
	return &Opportunities{Items: items}
}

func (o *Opportunities) Len() int {
	return len(o.Items)
}

func (o *Opportunities) FindByID(id string) *Opportunity {
	for _, item := range o.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (o *Opportunities) IDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Organizations returns the distinct organizations in first-seen order.
func (o *Opportunities) Organizations() []string {
	seen := make(map[string]bool)
	orgs := make([]string, 0)
	for _, item := range o.Items {
		if item.Organization == "" || seen[item.Organization] {
			continue
		}
		seen[item.Organization] = true
		orgs = append(orgs, item.Organization)
	}
	return orgs
}

// Similar returns up to n other opportunities from the same organization.
func (o *Opportunities) Similar(target *Opportunity, n int) []*Opportunity {
	similar := make([]*Opportunity, 0, n)
	if target == nil {
		return similar
	}
	for _, item := range o.Items {
		if len(similar) >= n {
			break
		}
		if item.ID == target.ID || item.Organization != target.Organization {
			continue
		}
		similar = append(similar, item)
	}
	return similar
}

// Keep retains the items accepted by keep, preserving order, and returns the
// ids of the dropped ones.
func (o *Opportunities) Keep(keep func(*Opportunity) bool) []string {
	var dropped []string
	kept := o.Items[:0:0]
	for _, item := range o.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.ID)
	}
	o.Items = kept
	return dropped
}

// Clone copies the collection, not the records.
func (o *Opportunities) Clone() *Opportunities {
	items := make([]*Opportunity, len(o.Items))
	copy(items, o.Items)
	return &Opportunities{Items: items}
}

// Open reports whether the deadline has not passed at now. Opportunities with
// an unparsable deadline count as open.
func (o *Opportunity) Open(now time.Time) bool {
	deadline, err := o.DeadlineTime()
	if err != nil {
		return true
	}
	return now.Before(deadline.AddDate(0, 0, 1))
}
