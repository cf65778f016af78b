package services

import (
	"context"
	"github.com/maxaizer/hiring-board/internal/logger"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type SessionCleanupRepository interface {
	RemoveExpiredSessions(ctx context.Context) (int64, error)
}

type SessionsCleaner struct {
	sessions SessionCleanupRepository
	cron     *cron.Cron
}

func NewSessionsCleaner(sessions SessionCleanupRepository) (*SessionsCleaner, error) {

	sc := &SessionsCleaner{
		sessions: sessions,
		cron:     cron.New(),
	}

	_, err := sc.cron.AddFunc("@hourly", sc.cleanExpiredSessions)
	if err != nil {
		return nil, err
	}

	sc.cron.Start()
	log.Info("sessions cleaner started")
	return sc, nil
}

func (sc *SessionsCleaner) Stop() {
	<-sc.cron.Stop().Done()
}

func (sc *SessionsCleaner) cleanExpiredSessions() {
	removed, err := sc.sessions.RemoveExpiredSessions(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuth).Errorf("Failed to clean expired sessions: %v", err)
	} else {
		log.Infof("Expired sessions were cleaned, removed: %v", removed)
	}
}
