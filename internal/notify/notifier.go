// Package notify forwards board events to the admins' Telegram chat.
package notify

import (
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/hiring-board/internal/domain/events"
	"github.com/maxaizer/hiring-board/internal/logger"
	log "github.com/sirupsen/logrus"
	"strings"
)

type apiInterface interface {
	Send(c botApi.Chattable) (botApi.Message, error)
}

type Notifier struct {
	api    apiInterface
	chatID int64
}

func NewNotifier(token string, chatID int64, bus EventBus.Bus) (*Notifier, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	return newNotifier(api, chatID, bus)
}

func newNotifier(api apiInterface, chatID int64, bus EventBus.Bus) (*Notifier, error) {
	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	n := &Notifier{api: api, chatID: chatID}

	if err := bus.SubscribeAsync(events.JobCreatedTopic, n.onJobCreated, false); err != nil {
		return nil, err
	}
	if err := bus.SubscribeAsync(events.JobStatusChangedTopic, n.onJobStatusChanged, false); err != nil {
		return nil, err
	}
	if err := bus.SubscribeAsync(events.ApplicationSubmittedTopic, n.onApplicationSubmitted, false); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Notifier) onJobCreated(event events.JobCreated) {
	job := event.Job
	text := fmt.Sprintf("New job opening \"%s\" (%s)\nSalary: %d - %d\nCandidates needed: %d",
		job.JobName, job.JobType, job.MinSalary, job.MaxSalary, job.NumberOfCandidates)
	if job.CompanyName != "" {
		text += "\nCompany: " + job.CompanyName
	}
	n.sendWithLogError(text)
}

func (n *Notifier) onJobStatusChanged(event events.JobStatusChanged) {
	n.sendWithLogError(fmt.Sprintf("Job %s is now %s (was %s)", event.JobID, event.To, event.From))
}

func (n *Notifier) onApplicationSubmitted(event events.ApplicationSubmitted) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("New application for \"%s\"", event.JobName))
	if name := event.Application.SubmittedProfile["fullName"]; name != "" {
		sb.WriteString(" from " + name)
	}
	if email := event.Application.SubmittedProfile["email"]; email != "" {
		sb.WriteString(" <" + email + ">")
	}
	n.sendWithLogError(sb.String())
}

func (n *Notifier) sendWithLogError(text string) {
	if _, err := n.api.Send(botApi.NewMessage(n.chatID, text)); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}
