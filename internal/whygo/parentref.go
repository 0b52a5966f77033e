package whygo

import (
	"encoding/json"
	"strings"
)

// RefKind identifies what a ladder-up reference points at.
type RefKind int

const (
	// RefUnknown is a reference whose target level could not be determined.
	RefUnknown RefKind = iota
	// RefCompany points at a company goal.
	RefCompany
	// RefDepartment points at a department goal.
	RefDepartment
)

// String returns the lowercase name of the kind.
func (k RefKind) String() string {
	switch k {
	case RefCompany:
		return "company"
	case RefDepartment:
		return "department"
	case RefUnknown:
		return "unknown"
	}
	return "unknown"
}

const (
	companyGoalPrefix    = "cg_"
	departmentGoalPrefix = "dg_"
)

// ParentRef is a ladder-up reference from a goal to its parent goal.
// Kind is fixed when the reference is created and never re-derived.
type ParentRef struct {
	Kind RefKind
	ID   string
}

// CompanyRef returns a reference to a company goal.
func CompanyRef(id string) ParentRef {
	return ParentRef{Kind: RefCompany, ID: id}
}

// DepartmentRef returns a reference to a department goal.
func DepartmentRef(id string) ParentRef {
	return ParentRef{Kind: RefDepartment, ID: id}
}

// ParseParentRef classifies a raw goal ID coming from the API.
func ParseParentRef(id string) ParentRef {
	switch {
	case strings.HasPrefix(id, companyGoalPrefix):
		return CompanyRef(id)
	case strings.HasPrefix(id, departmentGoalPrefix):
		return DepartmentRef(id)
	default:
		return ParentRef{Kind: RefUnknown, ID: id}
	}
}

// Number returns the short human number of the referenced goal: "3" for
// "cg_3" and "2" for "dg_2_sales". Unknown references return the raw ID.
func (r ParentRef) Number() string {
	switch r.Kind {
	case RefCompany:
		return strings.TrimPrefix(r.ID, companyGoalPrefix)
	case RefDepartment:
		rest := strings.TrimPrefix(r.ID, departmentGoalPrefix)
		n, _, _ := strings.Cut(rest, "_")
		return n
	case RefUnknown:
		return r.ID
	}
	return r.ID
}

// Label is the display label used for connection badges.
func (r ParentRef) Label() string {
	switch r.Kind {
	case RefCompany:
		return "Company Goal #" + r.Number()
	case RefDepartment:
		return "Dept Goal #" + r.Number()
	case RefUnknown:
		return r.ID
	}
	return r.ID
}

// MarshalJSON encodes the reference as its raw ID, the wire format.
func (r ParentRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// UnmarshalJSON decodes a raw ID and classifies it.
func (r *ParentRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = ParseParentRef(id)
	return nil
}

// ParentRefs is an ordered list of ladder-up references.
type ParentRefs []ParentRef

// IDs returns the raw IDs in order.
func (rs ParentRefs) IDs() []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

// OfKind returns the references of the given kind.
func (rs ParentRefs) OfKind(kind RefKind) ParentRefs {
	var out ParentRefs
	for _, r := range rs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// MarshalText encodes the reference as its raw ID, so YAML drafts can write
// `parent: dg_2_sales`.
func (r ParentRef) MarshalText() ([]byte, error) {
	return []byte(r.ID), nil
}

// UnmarshalText parses a raw ID.
func (r *ParentRef) UnmarshalText(text []byte) error {
	*r = ParseParentRef(string(text))
	return nil
}
