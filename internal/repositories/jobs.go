package repositories

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"slices"
	"time"
)

type Jobs struct {
	store docstore.Store
	paths docstore.Paths
	bus   EventBus.Bus
}

func NewJobsRepository(store docstore.Store, paths docstore.Paths, bus EventBus.Bus) *Jobs {
	return &Jobs{store: store, paths: paths, bus: bus}
}

// Create validates the form and stores a new Active listing. Validation
// failures never reach the store.
func (repo *Jobs) Create(ctx context.Context, actor models.Session, input models.JobInput) (*models.JobListing, error) {
	if !actor.Role.IsAdmin() {
		return nil, models.ErrForbidden
	}

	job, err := models.NewJobListing(input)
	if err != nil {
		return nil, err
	}

	defer observe("jobs.create", time.Now())

	doc, err := repo.store.Create(ctx, repo.paths.JobOpenings(), "", map[string]any{
		"jobName":             job.JobName,
		"jobType":             job.JobType,
		"description":         job.Description,
		"minSalary":           job.MinSalary,
		"maxSalary":           job.MaxSalary,
		"numberOfCandidates":  job.NumberOfCandidates,
		"location":            job.Location,
		"companyName":         job.CompanyName,
		"status":              models.JobActive,
		"createdAt":           docstore.ServerTimestamp,
		"profileRequirements": job.ProfileRequirements,
	})
	if err != nil {
		return nil, writeError("create job", err)
	}

	created, err := decodeJob(*doc)
	if err != nil {
		return nil, readError("decode created job", err)
	}

	metrics.JobsCreatedCounter.Inc()
	repo.bus.Publish(events.JobCreatedTopic, events.JobCreated{Job: *created})
	return created, nil
}

// List returns a snapshot ordered by creation time, newest first. Users
// only see Active listings.
func (repo *Jobs) List(ctx context.Context, role models.Role) ([]models.JobListing, error) {
	var filter *docstore.Filter
	switch role {
	case models.RoleAdmin:
	case models.RoleUser:
		filter = &docstore.Filter{Field: "status", Value: string(models.JobActive)}
	default:
		return nil, models.ErrForbidden
	}

	defer observe("jobs.list", time.Now())

	docs, err := repo.store.Find(ctx, repo.paths.JobOpenings(), filter)
	if err != nil {
		return nil, readError("list jobs", err)
	}

	jobs := make([]models.JobListing, 0, len(docs))
	for _, doc := range docs {
		job, err := decodeJob(doc)
		if err != nil {
			return nil, readError("decode job "+doc.ID, err)
		}
		jobs = append(jobs, *job)
	}

	slices.SortStableFunc(jobs, func(a, b models.JobListing) int {
		return b.SortTime().Compare(a.SortTime())
	})
	return jobs, nil
}

// Get returns a single listing as the given role may see it.
func (repo *Jobs) Get(ctx context.Context, role models.Role, id string) (*models.JobListing, error) {
	if !role.IsValid() {
		return nil, models.ErrForbidden
	}

	job, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !role.IsAdmin() && job.Status != models.JobActive {
		return nil, models.ErrNotFound
	}
	return job, nil
}

// GetByID reads a listing without any role scoping.
func (repo *Jobs) GetByID(ctx context.Context, id string) (*models.JobListing, error) {
	defer observe("jobs.get", time.Now())

	doc, err := repo.store.Get(ctx, repo.paths.JobOpenings(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, readError("get job", err)
	}

	job, err := decodeJob(*doc)
	if err != nil {
		return nil, readError("decode job "+id, err)
	}
	return job, nil
}

// SetStatus toggles a listing between Active and Inactive. Only the status
// field is written; setting the current status again writes nothing.
func (repo *Jobs) SetStatus(ctx context.Context, actor models.Session, jobID string, status models.JobStatus) (*models.JobListing, error) {
	if !actor.Role.IsAdmin() {
		return nil, models.ErrForbidden
	}

	if !status.IsToggleTarget() {
		verr := models.NewValidationError()
		verr.Add("status", fmt.Sprintf("must be %s or %s", models.JobActive, models.JobInactive))
		return nil, verr
	}

	job, err := repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == status {
		return job, nil
	}

	defer observe("jobs.set_status", time.Now())

	err = repo.store.Update(ctx, repo.paths.JobOpenings(), jobID, map[string]any{"status": status})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, writeError("update job status", err)
	}

	previous := job.Status
	job.Status = status

	metrics.JobStatusChangesCounter.WithLabelValues(string(status)).Inc()
	repo.bus.Publish(events.JobStatusChangedTopic, events.JobStatusChanged{
		JobID: jobID,
		From:  previous,
		To:    status,
		By:    actor.UID,
	})
	return job, nil
}

func decodeJob(doc docstore.Document) (*models.JobListing, error) {
	var job models.JobListing
	if err := doc.Decode(&job); err != nil {
		return nil, err
	}
	job.ID = doc.ID
	return &job, nil
}
