package domain

import "strings"

// Constraint is one available Organization Policy constraint as returned by
// the Cloud Resource Manager listing. The JSON tags mirror the v1 API so a
// serialized listing reproduces the raw response shape.
type Constraint struct {
	Name              string             `json:"name"`
	DisplayName       string             `json:"displayName,omitempty"`
	Description       string             `json:"description,omitempty"`
	ConstraintDefault string             `json:"constraintDefault,omitempty"`
	Version           int64              `json:"version,omitempty"`
	ListConstraint    *ListConstraint    `json:"listConstraint,omitempty"`
	BooleanConstraint *BooleanConstraint `json:"booleanConstraint,omitempty"`
}

type ListConstraint struct {
	SuggestedValue string `json:"suggestedValue,omitempty"`
	SupportsUnder  bool   `json:"supportsUnder,omitempty"`
}

type BooleanConstraint struct{}

// Suffix returns the human-readable tail of the constraint name, the part
// after the last "/". Names without a "/" are returned unchanged.
func (c Constraint) Suffix() string {
	return NameSuffix(c.Name)
}

func NameSuffix(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ConstraintListing is the full raw listing for an organization.
type ConstraintListing struct {
	Constraints []Constraint `json:"constraints"`
}

// Names extracts the constraint name sequence in listing order.
func (l ConstraintListing) Names() []string {
	names := make([]string, 0, len(l.Constraints))
	for _, c := range l.Constraints {
		names = append(names, c.Name)
	}
	return names
}
