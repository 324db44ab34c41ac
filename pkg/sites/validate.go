package sites

import "fmt"

// BodyKind tells which shape a group resolved to.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyFlat
	BodyNested
)

func (k BodyKind) String() string {
	switch k {
	case BodyFlat:
		return "flat"
	case BodyNested:
		return "nested"
	}
	return "empty"
}

// GroupBody is the resolved content of a group: a flat site list, a list of
// subgroups, or nothing (rendered as a placeholder).
type GroupBody struct {
	Kind      BodyKind
	Sites     []Site
	Subgroups []Subgroup
}

type ResolvedGroup struct {
	Name string
	Body GroupBody
}

// Document is a sites document that passed validation.
type Document struct {
	Groups []ResolvedGroup
}

// Sites returns every site in document order.
func (d *Document) Sites() []Site {
	var out []Site
	for _, g := range d.Groups {
		switch g.Body.Kind {
		case BodyFlat:
			out = append(out, g.Body.Sites...)
		case BodyNested:
			for _, sg := range g.Body.Subgroups {
				out = append(out, sg.Sites...)
			}
		}
	}
	return out
}

// Find returns the site with the given ID.
func (d *Document) Find(id string) (Site, bool) {
	for _, s := range d.Sites() {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// Location addresses a group, subgroup or site by zero-based index.
// Subgroup and Site are -1 when not applicable.
type Location struct {
	Group    int
	Subgroup int
	Site     int
}

func (l Location) String() string {
	var s string
	if l.Site >= 0 {
		s = fmt.Sprintf("site %d of ", l.Site)
	}
	if l.Subgroup >= 0 {
		s += fmt.Sprintf("subgroup %d of ", l.Subgroup)
	}
	return s + fmt.Sprintf("group %d", l.Group)
}

type Rule string

const (
	RuleGroupName    Rule = "group-name"
	RuleSubgroupName Rule = "subgroup-name"
	RuleSiteID       Rule = "site-id"
	RuleSiteName     Rule = "site-name"
	RuleDuplicateID  Rule = "duplicate-id"
)

// ValidationError describes the first structural violation found.
// First is set for duplicate IDs and points at the earlier occurrence.
type ValidationError struct {
	Rule  Rule
	At    Location
	ID    string
	First *Location
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleGroupName:
		return fmt.Sprintf("No GroupName was defined for %s in the sites.json file", e.At)
	case RuleSubgroupName:
		return fmt.Sprintf("No SubgroupName was defined for %s in the sites.json file", e.At)
	case RuleSiteID:
		return fmt.Sprintf("No ID was defined for %s in the sites.json file", e.At)
	case RuleSiteName:
		return fmt.Sprintf("No Name was defined for %s in the sites.json file", e.At)
	case RuleDuplicateID:
		return fmt.Sprintf("The ID %q for %s is already used by %s in the sites.json file", e.ID, e.At, e.First)
	}
	return fmt.Sprintf("invalid sites.json at %s", e.At)
}

// Validate checks groups fail-fast, in document order, and resolves each
// group body. IDs must be unique across the whole document.
func Validate(groups []Group) (*Document, error) {
	seen := make(map[string]Location)
	doc := &Document{Groups: make([]ResolvedGroup, 0, len(groups))}

	checkSite := func(s Site, at Location) error {
		if s.ID == "" {
			return &ValidationError{Rule: RuleSiteID, At: at}
		}
		if s.Name == "" {
			return &ValidationError{Rule: RuleSiteName, At: at, ID: s.ID}
		}
		if first, dup := seen[s.ID]; dup {
			return &ValidationError{Rule: RuleDuplicateID, At: at, ID: s.ID, First: &first}
		}
		seen[s.ID] = at
		return nil
	}

	for i, g := range groups {
		if g.GroupName == "" {
			return nil, &ValidationError{Rule: RuleGroupName, At: Location{Group: i, Subgroup: -1, Site: -1}}
		}

		rg := ResolvedGroup{Name: g.GroupName}
		switch {
		case len(g.Sites) > 0:
			for j, s := range g.Sites {
				if err := checkSite(s, Location{Group: i, Subgroup: -1, Site: j}); err != nil {
					return nil, err
				}
			}
			rg.Body = GroupBody{Kind: BodyFlat, Sites: g.Sites}
		case len(g.Subgroups) > 0:
			for j, sg := range g.Subgroups {
				if sg.SubgroupName == "" {
					return nil, &ValidationError{Rule: RuleSubgroupName, At: Location{Group: i, Subgroup: j, Site: -1}}
				}
				for k, s := range sg.Sites {
					if err := checkSite(s, Location{Group: i, Subgroup: j, Site: k}); err != nil {
						return nil, err
					}
				}
			}
			rg.Body = GroupBody{Kind: BodyNested, Subgroups: g.Subgroups}
		default:
			rg.Body = GroupBody{Kind: BodyEmpty}
		}
		doc.Groups = append(doc.Groups, rg)
	}

	return doc, nil
}

// Parse decodes and validates a sites.json document.
func Parse(data []byte) (*Document, error) {
	groups, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Validate(groups)
}

func (k BodyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
