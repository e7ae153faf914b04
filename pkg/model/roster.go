package model

import (
	"fmt"
	"strings"
)

type Availability int

const (
	FullTime Availability = iota // Teaches morning periods only
	PartTime                     // Teaches afternoon periods only
)

func ParseAvailability(value string) (Availability, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "f":
		return FullTime, nil
	case "p":
		return PartTime, nil
	}
	return 0, fmt.Errorf("unknown instructor type \"%v\": expected \"f\" (full-time) or \"p\" (part-time)", value)
}

func (availability Availability) String() string {
	if availability == PartTime {
		return "p"
	}
	return "f"
}

// Allows reports whether the availability class may teach at the given period ordinal
func (availability Availability) Allows(period int) bool {
	return IsMorning(period) == (availability == FullTime)
}

type Instructor struct {
	Name         string
	Subject      string
	Availability Availability
}

type Cohort struct {
	Name        string
	Instructors []Instructor
	Labs        []string // Subjects with a lab session; sparse and not aligned with Instructors
}

type CohortKind int

const (
	Primary CohortKind = iota
	Secondary
)

var CohortKinds = []CohortKind{Primary, Secondary}

// Roster holds both cohorts. Global instructor ids span Primary [0, P) followed by Secondary [P, P+S)
type Roster struct {
	Primary   Cohort
	Secondary Cohort
}

func (roster Roster) Total() int {
	return len(roster.Primary.Instructors) + len(roster.Secondary.Instructors)
}

func (roster Roster) Cohort(kind CohortKind) Cohort {
	if kind == Secondary {
		return roster.Secondary
	}
	return roster.Primary
}

// Range returns the half-open global id range [from, to) of a cohort
func (roster Roster) Range(kind CohortKind) (from, to int) {
	primaries := len(roster.Primary.Instructors)
	if kind == Secondary {
		return primaries, primaries + len(roster.Secondary.Instructors)
	}
	return 0, primaries
}

// Instructor resolves a global id, returning false when no cohort owns it
func (roster Roster) Instructor(id int) (Instructor, bool) {
	primaries := len(roster.Primary.Instructors)
	if id >= 0 && id < primaries {
		return roster.Primary.Instructors[id], true
	} else if id >= primaries && id < roster.Total() {
		return roster.Secondary.Instructors[id-primaries], true
	}
	return Instructor{}, false
}
