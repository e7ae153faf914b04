package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// RawCohort mirrors a persisted cohort: parallel lists plus a sparse list of lab subjects
type RawCohort struct {
	Instructors    []string `mapstructure:"instructors" json:"instructors"`
	Subjects       []string `mapstructure:"subjects" json:"subjects"`
	InstructorType []string `mapstructure:"instructor_type" json:"instructor_type"`
	Labs           []string `mapstructure:"labs" json:"labs"`
}

var rawCohortFields = []string{"instructors", "subjects", "instructor_type", "labs"}

// RosterFromJson reads a persisted roster keyed by cohort name. Both the nested layout
// ({"bct": {"instructors": [...], ...}}) and the flat one ({"instructors_bct": [...], ...}) are accepted
func RosterFromJson(file, primary, secondary string) (Roster, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Roster{}, fmt.Errorf("cannot read roster file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Roster{}, fmt.Errorf("cannot parse roster file: %w", err)
	}

	return RosterFromMap(inputJson, primary, secondary)
}

func RosterFromMap(input map[string]any, primary, secondary string) (Roster, error) {
	if isFlatLayout(input) {
		input = nestFlatLayout(input, primary, secondary)
	}

	var rawCohorts map[string]RawCohort
	if err := mapstructure.Decode(input, &rawCohorts); err != nil {
		return Roster{}, fmt.Errorf("cannot decode roster: %w", err)
	}

	rawPrimary, ok := rawCohorts[primary]
	if !ok {
		return Roster{}, fmt.Errorf("cohort \"%v\" is not present in roster: %v", primary, lo.Keys(rawCohorts))
	}
	rawSecondary, ok := rawCohorts[secondary]
	if !ok {
		return Roster{}, fmt.Errorf("cohort \"%v\" is not present in roster: %v", secondary, lo.Keys(rawCohorts))
	}

	primaryCohort, err := ProcessRawCohort(primary, rawPrimary)
	if err != nil {
		return Roster{}, err
	}
	secondaryCohort, err := ProcessRawCohort(secondary, rawSecondary)
	if err != nil {
		return Roster{}, err
	}

	return Roster{Primary: primaryCohort, Secondary: secondaryCohort}, nil
}

func ProcessRawCohort(name string, raw RawCohort) (Cohort, error) {
	if len(raw.Instructors) != len(raw.Subjects) || len(raw.Instructors) != len(raw.InstructorType) {
		return Cohort{}, fmt.Errorf("cohort \"%v\" must have as many subjects and instructor types as instructors: instructors=%v, subjects=%v, instructor_type=%v", name, len(raw.Instructors), len(raw.Subjects), len(raw.InstructorType))
	}

	cohort := Cohort{
		Name:        name,
		Instructors: make([]Instructor, 0, len(raw.Instructors)),
		Labs:        raw.Labs,
	}
	for i, instructorName := range raw.Instructors {
		availability, err := ParseAvailability(raw.InstructorType[i])
		if err != nil {
			return Cohort{}, fmt.Errorf("cohort \"%v\", instructor \"%v\": %w", name, instructorName, err)
		}
		cohort.Instructors = append(cohort.Instructors, Instructor{
			Name:         instructorName,
			Subject:      raw.Subjects[i],
			Availability: availability,
		})
	}
	return cohort, nil
}

// SaveRosterJson persists the roster in the nested layout
func SaveRosterJson(file string, roster Roster) error {
	output := lo.SliceToMap(CohortKinds, func(kind CohortKind) (string, RawCohort) {
		cohort := roster.Cohort(kind)
		return cohort.Name, RawCohort{
			Instructors:    lo.Map(cohort.Instructors, func(instructor Instructor, _ int) string { return instructor.Name }),
			Subjects:       lo.Map(cohort.Instructors, func(instructor Instructor, _ int) string { return instructor.Subject }),
			InstructorType: lo.Map(cohort.Instructors, func(instructor Instructor, _ int) string { return instructor.Availability.String() }),
			Labs:           append([]string{}, cohort.Labs...),
		}
	})

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode roster: %w", err)
	}
	return os.WriteFile(file, bytes, 0666)
}

func isFlatLayout(input map[string]any) bool {
	return lo.SomeBy(lo.Keys(input), func(key string) bool {
		return strings.HasPrefix(key, "instructors_")
	})
}

func nestFlatLayout(input map[string]any, cohorts ...string) map[string]any {
	output := make(map[string]any)
	for _, cohort := range cohorts {
		nested := make(map[string]any)
		for _, field := range rawCohortFields {
			if value, ok := input[field+"_"+cohort]; ok {
				nested[field] = value
			}
		}
		// Cohorts without any field are left out so that they're reported as missing
		if len(nested) > 0 {
			output[cohort] = nested
		}
	}
	return output
}
