package events

import "github.com/ventilia/nuclear-donor-bot/internal/models"

// OnProfileModerated is called after an admin decision on a profile, with the
// user's chat id. The transport layer sets it to deliver the verdict.
var OnProfileModerated func(chatID int64, approved bool)

// OnEventCreated is called after a new donation event is stored. The
// transport layer sets it to announce the event to consented users.
var OnEventCreated func(ev models.Event)
