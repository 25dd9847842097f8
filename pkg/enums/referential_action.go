package enums

import (
	"fmt"
	"strings"
)

// ReferentialAction describes what happens to referencing rows when a parent row is deleted.
type ReferentialAction string

const (
	ReferentialActionSetNull  ReferentialAction = "SET_NULL"
	ReferentialActionRestrict ReferentialAction = "RESTRICT"
	ReferentialActionCascade  ReferentialAction = "CASCADE"
)

var validReferentialActions = []ReferentialAction{
	ReferentialActionSetNull,
	ReferentialActionRestrict,
	ReferentialActionCascade,
}

// String implements fmt.Stringer.
func (a ReferentialAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ReferentialAction.
func (a ReferentialAction) IsValid() bool {
	for _, candidate := range validReferentialActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// SQL renders the action as it appears in an ON DELETE clause.
func (a ReferentialAction) SQL() string {
	return strings.ReplaceAll(string(a), "_", " ")
}

// ParseReferentialAction converts raw input into a ReferentialAction.
func ParseReferentialAction(value string) (ReferentialAction, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", "_"))
	for _, candidate := range validReferentialActions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid referential action %q", value)
}
