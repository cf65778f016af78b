package repositories

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var (
	admin = models.Session{UID: "admin-1", Email: "admin@board.io", Role: models.RoleAdmin}
	user  = models.Session{UID: "user-1", Email: "user@board.io", Role: models.RoleUser}
	paths = docstore.Paths{AppID: "test-app"}
)

type clock struct {
	current time.Time
}

func (c *clock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

type fixture struct {
	store        *docstore.Memory
	bus          EventBus.Bus
	jobs         *Jobs
	applications *Applications
}

func newFixture() *fixture {
	store := docstore.NewMemory()
	store.SetClock((&clock{current: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}).Now)
	bus := EventBus.New()
	jobs := NewJobsRepository(store, paths, bus)
	return &fixture{
		store:        store,
		bus:          bus,
		jobs:         jobs,
		applications: NewApplicationsRepository(store, paths, jobs, bus),
	}
}

func backendInput() models.JobInput {
	return models.JobInput{
		JobName:            "Backend Engineer",
		JobType:            "Full-Time",
		Description:        "...",
		MinSalary:          "5000000",
		MaxSalary:          "9000000",
		NumberOfCandidates: "2",
	}
}

func (f *fixture) createJob(t *testing.T, name string) *models.JobListing {
	t.Helper()
	input := backendInput()
	input.JobName = name
	job, err := f.jobs.Create(context.Background(), admin, input)
	require.NoError(t, err)
	return job
}

func ids(jobs []models.JobListing) []string {
	result := make([]string, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, job.ID)
	}
	return result
}

func Test_Jobs_Create_ShouldAssignDefaults(t *testing.T) {
	assert := assert.New(t)
	f := newFixture()
	invokedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	job, err := f.jobs.Create(context.Background(), admin, backendInput())

	require.NoError(t, err)
	assert.NotEmpty(job.ID)
	assert.Equal(models.JobActive, job.Status)
	assert.False(job.CreatedAt.Before(invokedAt))
	assert.Equal(int64(5000000), job.MinSalary)
	assert.Equal(int64(9000000), job.MaxSalary)
	assert.Equal(2, job.NumberOfCandidates)
	assert.Equal(models.DefaultProfileRequirements(), job.ProfileRequirements)
}

func Test_Jobs_Create_WhenUser_ShouldBeForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.jobs.Create(context.Background(), user, backendInput())

	assert.ErrorIs(t, err, models.ErrForbidden)
	jobs, err := f.jobs.List(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func Test_Jobs_Create_WhenInvalid_ShouldNotReachStore(t *testing.T) {
	assert := assert.New(t)
	f := newFixture()
	f.store.SetUnavailable(true)
	input := backendInput()
	input.JobName = ""
	input.MinSalary = "-1"

	_, err := f.jobs.Create(context.Background(), admin, input)

	assert.ErrorIs(err, models.ErrValidation)
	assert.NotErrorIs(err, models.ErrStoreUnavailable)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(verr.Fields, "jobName")
	assert.Contains(verr.Fields, "minSalary")
}

func Test_Jobs_Create_WhenStoreUnavailable_ShouldReturnWriteFailure(t *testing.T) {
	assert := assert.New(t)
	f := newFixture()
	f.store.SetUnavailable(true)

	_, err := f.jobs.Create(context.Background(), admin, backendInput())

	assert.ErrorIs(err, models.ErrStoreUnavailable)
	assert.ErrorIs(err, docstore.ErrUnavailable)
}

func Test_Jobs_Create_ShouldPublishEvent(t *testing.T) {
	f := newFixture()
	var received []events.JobCreated
	require.NoError(t, f.bus.Subscribe(events.JobCreatedTopic, func(event events.JobCreated) {
		received = append(received, event)
	}))

	job := f.createJob(t, "Backend Engineer")

	require.Len(t, received, 1)
	assert.Equal(t, job.ID, received[0].Job.ID)
}

func Test_Jobs_List_ShouldScopeByRole(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	first := f.createJob(t, "first")
	second := f.createJob(t, "second")
	third := f.createJob(t, "third")
	_, err := f.jobs.SetStatus(ctx, admin, second.ID, models.JobInactive)
	require.NoError(t, err)

	userJobs, err := f.jobs.List(ctx, models.RoleUser)
	require.NoError(t, err)
	adminJobs, err := f.jobs.List(ctx, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal([]string{third.ID, first.ID}, ids(userJobs))
	assert.Equal([]string{third.ID, second.ID, first.ID}, ids(adminJobs))
	for _, job := range userJobs {
		assert.Equal(models.JobActive, job.Status)
	}
}

func Test_Jobs_List_WhenRoleUnknown_ShouldBeForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.jobs.List(context.Background(), models.Role("guest"))

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func Test_Jobs_List_WhenTimestampMissing_ShouldSortLast(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	_, err := f.store.Create(ctx, paths.JobOpenings(), "legacy", map[string]any{
		"jobName": "legacy",
		"status":  "Active",
	})
	require.NoError(t, err)
	older := f.createJob(t, "older")
	newer := f.createJob(t, "newer")

	jobs, err := f.jobs.List(ctx, models.RoleUser)

	require.NoError(t, err)
	assert.Equal([]string{newer.ID, older.ID, "legacy"}, ids(jobs))
	for i := 1; i < len(jobs); i++ {
		assert.False(jobs[i].SortTime().After(jobs[i-1].SortTime()))
	}
}

func Test_Jobs_List_WhenTimestampInvalid_ShouldSortLast(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	_, err := f.store.Create(ctx, paths.JobOpenings(), "legacy", map[string]any{
		"jobName":   "legacy",
		"status":    "Active",
		"createdAt": "not-a-timestamp",
	})
	require.NoError(t, err)
	good := f.createJob(t, "good")

	jobs, err := f.jobs.List(ctx, models.RoleUser)

	require.NoError(t, err)
	assert.Equal([]string{good.ID, "legacy"}, ids(jobs))
	assert.True(jobs[1].CreatedAt.IsZero())
	assert.Equal(time.Unix(0, 0).UTC(), jobs[1].SortTime())
}

func Test_Jobs_Get_WhenUserAndInactive_ShouldReturnNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	job := f.createJob(t, "hidden")
	_, err := f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)

	_, err = f.jobs.Get(ctx, models.RoleUser, job.ID)
	assert.ErrorIs(err, models.ErrNotFound)

	found, err := f.jobs.Get(ctx, models.RoleAdmin, job.ID)
	require.NoError(t, err)
	assert.Equal(models.JobInactive, found.Status)
}

func Test_Jobs_SetStatus_ShouldBeIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	job := f.createJob(t, "toggle")

	_, err := f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)
	once, err := f.store.Get(ctx, paths.JobOpenings(), job.ID)
	require.NoError(t, err)

	_, err = f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)
	twice, err := f.store.Get(ctx, paths.JobOpenings(), job.ID)
	require.NoError(t, err)

	assert.JSONEq(string(once.Data), string(twice.Data))
	assert.Equal(once.UpdatedAt, twice.UpdatedAt)
}

func Test_Jobs_SetStatus_ShouldOnlyChangeStatus(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	job := f.createJob(t, "toggle")

	updated, err := f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)

	stored, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(models.JobInactive, updated.Status)
	expected := *job
	expected.Status = models.JobInactive
	assert.Equal(expected, *stored)
}

func Test_Jobs_SetStatus_WhenUser_ShouldBeForbiddenAndLeaveRecord(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()
	job := f.createJob(t, "Backend Engineer")

	_, err := f.jobs.SetStatus(ctx, user, job.ID, models.JobInactive)

	assert.ErrorIs(err, models.ErrForbidden)
	adminJobs, err := f.jobs.List(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, adminJobs, 1)
	assert.Equal(models.JobActive, adminJobs[0].Status)
}

func Test_Jobs_SetStatus_WhenUserTargetsMissingJob_ShouldStillBeForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.jobs.SetStatus(context.Background(), user, "missing", models.JobActive)

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func Test_Jobs_SetStatus_WhenMissing_ShouldReturnNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.jobs.SetStatus(context.Background(), admin, "missing", models.JobActive)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func Test_Jobs_SetStatus_WhenDraft_ShouldBeValidationError(t *testing.T) {
	f := newFixture()
	job := f.createJob(t, "toggle")

	_, err := f.jobs.SetStatus(context.Background(), admin, job.ID, models.JobDraft)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func Test_Jobs_SetStatus_ShouldPublishOnlyRealChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	job := f.createJob(t, "toggle")
	var received []events.JobStatusChanged
	require.NoError(t, f.bus.Subscribe(events.JobStatusChangedTopic, func(event events.JobStatusChanged) {
		received = append(received, event)
	}))

	_, err := f.jobs.SetStatus(ctx, admin, job.ID, models.JobActive)
	require.NoError(t, err)
	_, err = f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, events.JobStatusChanged{
		JobID: job.ID, From: models.JobActive, To: models.JobInactive, By: admin.UID,
	}, received[0])
}

func Test_Jobs_Scenario_CreateThenDeactivate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture()

	job, err := f.jobs.Create(ctx, admin, backendInput())
	require.NoError(t, err)

	adminJobs, err := f.jobs.List(ctx, models.RoleAdmin)
	require.NoError(t, err)
	userJobs, err := f.jobs.List(ctx, models.RoleUser)
	require.NoError(t, err)
	assert.Equal([]string{job.ID}, ids(adminJobs))
	assert.Equal(models.JobActive, adminJobs[0].Status)
	assert.Equal([]string{job.ID}, ids(userJobs))

	_, err = f.jobs.SetStatus(ctx, admin, job.ID, models.JobInactive)
	require.NoError(t, err)

	adminJobs, err = f.jobs.List(ctx, models.RoleAdmin)
	require.NoError(t, err)
	userJobs, err = f.jobs.List(ctx, models.RoleUser)
	require.NoError(t, err)
	assert.Empty(userJobs)
	require.Len(t, adminJobs, 1)
	assert.Equal(models.JobInactive, adminJobs[0].Status)
}

func Test_Jobs_List_WhenStoreUnavailable_ShouldReturnUnavailable(t *testing.T) {
	f := newFixture()
	f.store.SetUnavailable(true)

	_, err := f.jobs.List(context.Background(), models.RoleAdmin)

	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}
