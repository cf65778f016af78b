package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

type JobStatus string

const (
	JobDraft    JobStatus = "Draft"
	JobActive   JobStatus = "Active"
	JobInactive JobStatus = "Inactive"
)

func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobDraft:
		return JobDraft, nil
	case JobActive:
		return JobActive, nil
	case JobInactive:
		return JobInactive, nil
	default:
		return "", fmt.Errorf("unknown job status %q", s)
	}
}

// IsToggleTarget reports whether an admin may move a listing into s.
// Draft is only ever an initial state.
func (s JobStatus) IsToggleTarget() bool {
	return s == JobActive || s == JobInactive
}

type RequirementLevel string

const (
	Mandatory RequirementLevel = "Mandatory"
	Optional  RequirementLevel = "Optional"
	Off       RequirementLevel = "Off"
)

type ProfileField string

const (
	FieldFullName     ProfileField = "fullName"
	FieldPhotoProfile ProfileField = "photoProfile"
	FieldGender       ProfileField = "gender"
	FieldDomicile     ProfileField = "domicile"
	FieldEmail        ProfileField = "email"
	FieldPhoneNumber  ProfileField = "phoneNumber"
	FieldLinkedinLink ProfileField = "linkedinLink"
	FieldDateOfBirth  ProfileField = "dateOfBirth"
)

var ProfileFields = []ProfileField{
	FieldFullName,
	FieldPhotoProfile,
	FieldGender,
	FieldDomicile,
	FieldEmail,
	FieldPhoneNumber,
	FieldLinkedinLink,
	FieldDateOfBirth,
}

func IsProfileField(name string) bool {
	return lo.Contains(ProfileFields, ProfileField(name))
}

type ProfileRequirements map[ProfileField]RequirementLevel

func DefaultProfileRequirements() ProfileRequirements {
	return ProfileRequirements{
		FieldFullName:     Mandatory,
		FieldPhotoProfile: Optional,
		FieldGender:       Mandatory,
		FieldDomicile:     Optional,
		FieldEmail:        Mandatory,
		FieldPhoneNumber:  Mandatory,
		FieldLinkedinLink: Optional,
		FieldDateOfBirth:  Mandatory,
	}
}

// Level treats a field missing from the mapping as Off.
func (r ProfileRequirements) Level(field ProfileField) RequirementLevel {
	if level, ok := r[field]; ok {
		return level
	}
	return Off
}

// NewProfileRequirements overlays raw onto the defaults. Unknown field names
// or levels are reported under "profileRequirements.<name>".
func NewProfileRequirements(raw map[string]string) (ProfileRequirements, error) {
	requirements := DefaultProfileRequirements()
	verr := NewValidationError()

	for name, level := range raw {
		key := "profileRequirements." + name
		if !IsProfileField(name) {
			verr.Add(key, "unknown profile field")
			continue
		}
		switch RequirementLevel(level) {
		case Mandatory, Optional, Off:
			requirements[ProfileField(name)] = RequirementLevel(level)
		default:
			verr.Add(key, "must be one of Mandatory, Optional, Off")
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return requirements, nil
}

type JobListing struct {
	ID                  string              `json:"id,omitempty"`
	JobName             string              `json:"jobName"`
	JobType             string              `json:"jobType"`
	Description         string              `json:"description"`
	MinSalary           int64               `json:"minSalary"`
	MaxSalary           int64               `json:"maxSalary"`
	NumberOfCandidates  int                 `json:"numberOfCandidates"`
	Location            string              `json:"location"`
	CompanyName         string              `json:"companyName"`
	Status              JobStatus           `json:"status"`
	CreatedAt           time.Time           `json:"createdAt"`
	ProfileRequirements ProfileRequirements `json:"profileRequirements"`
}

// UnmarshalJSON accepts any createdAt value. One that is not a timestamp
// decodes as the zero time.
func (j *JobListing) UnmarshalJSON(data []byte) error {
	type plain JobListing
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(j)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	j.CreatedAt = lenientTime(aux.CreatedAt)
	return nil
}

func lenientTime(raw json.RawMessage) time.Time {
	var t time.Time
	if len(raw) == 0 || json.Unmarshal(raw, &t) != nil {
		return time.Time{}
	}
	return t
}

// SortTime is the creation time used for ordering; listings without a
// timestamp sort as the Unix epoch.
func (j JobListing) SortTime() time.Time {
	if j.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return j.CreatedAt
}

// JobInput is the job opening form as submitted by an admin. Numeric fields
// arrive as text and are accepted only as plain digit strings.
type JobInput struct {
	JobName             string            `json:"jobName" validate:"required"`
	JobType             string            `json:"jobType" validate:"required"`
	Description         string            `json:"description" validate:"required"`
	NumberOfCandidates  string            `json:"numberOfCandidates" validate:"required,number"`
	MinSalary           string            `json:"minSalary" validate:"required,number"`
	MaxSalary           string            `json:"maxSalary" validate:"required,number"`
	Location            string            `json:"location"`
	CompanyName         string            `json:"companyName"`
	ProfileRequirements map[string]string `json:"profileRequirements"`
}

func (in JobInput) normalized() JobInput {
	in.JobName = strings.TrimSpace(in.JobName)
	in.JobType = strings.TrimSpace(in.JobType)
	in.Description = strings.TrimSpace(in.Description)
	in.NumberOfCandidates = strings.TrimSpace(in.NumberOfCandidates)
	in.MinSalary = strings.TrimSpace(in.MinSalary)
	in.MaxSalary = strings.TrimSpace(in.MaxSalary)
	in.Location = strings.TrimSpace(in.Location)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	return in
}

// NewJobListing validates the form and builds an unsaved listing. It does
// not assign id, status or creation time.
func NewJobListing(input JobInput) (*JobListing, error) {
	in := input.normalized()

	verr := NewValidationError()
	collectStructErrors(verr, in)

	requirements, err := NewProfileRequirements(in.ProfileRequirements)
	if err != nil {
		mergeValidationError(verr, err)
	}

	job := &JobListing{
		JobName:             in.JobName,
		JobType:             in.JobType,
		Description:         in.Description,
		Location:            in.Location,
		CompanyName:         in.CompanyName,
		ProfileRequirements: requirements,
	}

	if _, rejected := verr.Fields["numberOfCandidates"]; !rejected {
		count, err := strconv.Atoi(in.NumberOfCandidates)
		if err != nil {
			verr.Add("numberOfCandidates", "is too large")
		}
		job.NumberOfCandidates = count
	}
	if _, rejected := verr.Fields["minSalary"]; !rejected {
		job.MinSalary, err = strconv.ParseInt(in.MinSalary, 10, 64)
		if err != nil {
			verr.Add("minSalary", "is too large")
		}
	}
	if _, rejected := verr.Fields["maxSalary"]; !rejected {
		job.MaxSalary, err = strconv.ParseInt(in.MaxSalary, 10, 64)
		if err != nil {
			verr.Add("maxSalary", "is too large")
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return job, nil
}
