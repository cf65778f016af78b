package repositories

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"github.com/samber/lo"
	"slices"
	"time"
)

type jobReader interface {
	GetByID(ctx context.Context, id string) (*models.JobListing, error)
}

type Applications struct {
	store docstore.Store
	paths docstore.Paths
	jobs  jobReader
	bus   EventBus.Bus
}

func NewApplicationsRepository(store docstore.Store, paths docstore.Paths, jobs jobReader, bus EventBus.Bus) *Applications {
	return &Applications{store: store, paths: paths, jobs: jobs, bus: bus}
}

// Submit stores a new application of the acting principal. Repeated submits
// produce independent records.
func (repo *Applications) Submit(ctx context.Context, actor models.Session, jobID string,
	profile map[string]string) (*models.Application, error) {

	if !actor.Role.IsValid() || actor.UID == "" {
		return nil, models.ErrForbidden
	}

	job, err := repo.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobActive {
		return nil, models.ErrJobNotAcceptingApplications
	}

	submitted, err := models.ValidateProfile(job.ProfileRequirements, profile)
	if err != nil {
		return nil, err
	}

	defer observe("applications.submit", time.Now())

	doc, err := repo.store.Create(ctx, repo.paths.JobApplications(), "", map[string]any{
		"jobId":            jobID,
		"userId":           actor.UID,
		"submittedProfile": submitted,
		"appliedAt":        docstore.ServerTimestamp,
		"status":           models.ApplicationApplied,
	})
	if err != nil {
		return nil, writeError("create application", err)
	}

	application, err := decodeApplication(*doc)
	if err != nil {
		return nil, readError("decode created application", err)
	}

	metrics.ApplicationsSubmittedCounter.Inc()
	repo.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		Application: *application,
		JobName:     job.JobName,
	})
	return application, nil
}

// ListByJob returns the applications of one listing, newest first.
func (repo *Applications) ListByJob(ctx context.Context, actor models.Session, jobID string) ([]models.Application, error) {
	if !actor.Role.IsAdmin() {
		return nil, models.ErrForbidden
	}

	defer observe("applications.list", time.Now())

	docs, err := repo.store.Find(ctx, repo.paths.JobApplications(), &docstore.Filter{Field: "jobId", Value: jobID})
	if err != nil {
		return nil, readError("list applications", err)
	}

	applications := make([]models.Application, 0, len(docs))
	for _, doc := range docs {
		application, err := decodeApplication(doc)
		if err != nil {
			return nil, readError("decode application "+doc.ID, err)
		}
		applications = append(applications, *application)
	}

	slices.SortStableFunc(applications, func(a, b models.Application) int {
		return b.AppliedAt.Compare(a.AppliedAt)
	})
	return applications, nil
}

// CountByJob reports how many applications each listing received.
func (repo *Applications) CountByJob(ctx context.Context, actor models.Session) (map[string]int, error) {
	if !actor.Role.IsAdmin() {
		return nil, models.ErrForbidden
	}

	defer observe("applications.count", time.Now())

	docs, err := repo.store.Find(ctx, repo.paths.JobApplications(), nil)
	if err != nil {
		return nil, readError("count applications", err)
	}

	applications := make([]models.Application, 0, len(docs))
	for _, doc := range docs {
		application, err := decodeApplication(doc)
		if err != nil {
			return nil, readError("decode application "+doc.ID, err)
		}
		applications = append(applications, *application)
	}

	return lo.CountValuesBy(applications, func(a models.Application) string { return a.JobID }), nil
}

func decodeApplication(doc docstore.Document) (*models.Application, error) {
	var application models.Application
	if err := doc.Decode(&application); err != nil {
		return nil, err
	}
	application.ID = doc.ID
	return &application, nil
}
