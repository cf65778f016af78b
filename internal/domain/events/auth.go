package events

import (
	"github.com/maxaizer/hiring-board/internal/domain/models"
)

var AuthStateChangedTopic = "AuthStateChangedEvent"

// AuthStateChanged is published on every sign-up, sign-in and sign-out.
// Principal is nil when UID has just signed out.
type AuthStateChanged struct {
	UID       string
	Principal *models.Principal
}
