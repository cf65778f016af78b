package models

import (
	"encoding/json"
	"strings"
	"time"
)

type ApplicationStatus string

const ApplicationApplied ApplicationStatus = "Applied"

type Application struct {
	ID               string                  `json:"id,omitempty"`
	JobID            string                  `json:"jobId"`
	UserID           string                  `json:"userId"`
	SubmittedProfile map[ProfileField]string `json:"submittedProfile"`
	AppliedAt        time.Time               `json:"appliedAt"`
	Status           ApplicationStatus       `json:"status"`
}

// UnmarshalJSON decodes an appliedAt that is not a timestamp as the zero time.
func (a *Application) UnmarshalJSON(data []byte) error {
	type plain Application
	aux := struct {
		*plain
		AppliedAt json.RawMessage `json:"appliedAt"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.AppliedAt = lenientTime(aux.AppliedAt)
	return nil
}

// ValidateProfile checks a candidate profile against the requirements of a
// listing: every Mandatory field present, no Off field filled in and only
// known fields. Blank optional values are dropped.
func ValidateProfile(requirements ProfileRequirements, profile map[string]string) (map[ProfileField]string, error) {
	verr := NewValidationError()
	submitted := make(map[ProfileField]string, len(profile))

	for name, value := range profile {
		value = strings.TrimSpace(value)
		if !IsProfileField(name) {
			verr.Add(name, "unknown profile field")
			continue
		}
		field := ProfileField(name)
		if value == "" {
			continue
		}
		if requirements.Level(field) == Off {
			verr.Add(name, "is not requested for this job")
			continue
		}
		submitted[field] = value
	}

	for _, field := range ProfileFields {
		if requirements.Level(field) != Mandatory {
			continue
		}
		if _, ok := submitted[field]; !ok {
			verr.Add(string(field), "is required")
		}
	}

	if email, ok := submitted[FieldEmail]; ok {
		if err := validate.Var(email, "email"); err != nil {
			verr.Add(string(FieldEmail), "must be a valid email address")
		}
	}
	if link, ok := submitted[FieldLinkedinLink]; ok {
		if err := validate.Var(link, "url"); err != nil {
			verr.Add(string(FieldLinkedinLink), "must be a valid URL")
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return submitted, nil
}
