package events

import (
	"github.com/maxaizer/hiring-board/internal/domain/models"
)

var JobCreatedTopic = "JobCreatedEvent"

type JobCreated struct {
	Job models.JobListing
}

var JobStatusChangedTopic = "JobStatusChangedEvent"

type JobStatusChanged struct {
	JobID string
	From  models.JobStatus
	To    models.JobStatus
	By    string
}

var ApplicationSubmittedTopic = "ApplicationSubmittedEvent"

type ApplicationSubmitted struct {
	Application models.Application
	JobName     string
}
