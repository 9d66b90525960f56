package domain

import (
	"fmt"
	"strings"
)

// Role identifies which search input a selection belongs to.
type Role string

const (
	RoleGeneral Role = "general"
	RoleStart   Role = "start"
	RoleEnd     Role = "end"
)

// Roles lists every search input, in page order.
var Roles = []Role{RoleGeneral, RoleStart, RoleEnd}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleGeneral, RoleStart, RoleEnd:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// MarkerColor returns the pin color for roles that own a marker.
func (r Role) MarkerColor() string {
	switch r {
	case RoleStart:
		return "red"
	case RoleEnd:
		return "blue"
	}
	return ""
}
