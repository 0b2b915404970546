package channel

import (
	"slices"

	"adalert-srv/internal/model"
)

// Message is a rendered notification. Each channel uses the fields it needs.
type Message struct {
	Subject string
	Text    string
	HTML    string
	Payload []byte
}

// Target is where a message goes.
type Target struct {
	// URL is the Slack incoming webhook or the generic callback URL.
	URL          string
	BotToken     string
	SlackChannel string
	Recipients   []string
}

// Narrow returns the target restricted to the recipients that failed in err.
// Targets without recipients, or errors without a recipient list, are returned unchanged.
func (t Target) Narrow(err error) Target {
	failed := FailedRecipients(err)
	if len(t.Recipients) == 0 || len(failed) == 0 {
		return t
	}
	narrowed := t
	narrowed.Recipients = make([]string, 0, len(failed))
	for _, r := range t.Recipients {
		if slices.Contains(failed, r) {
			narrowed.Recipients = append(narrowed.Recipients, r)
		}
	}
	return narrowed
}

// Registry looks up senders by channel.
type Registry map[model.Channel]Sender

// NewRegistry indexes senders by their channel.
func NewRegistry(senders ...Sender) Registry {
	r := make(Registry, len(senders))
	for _, s := range senders {
		r[s.Channel()] = s
	}
	return r
}
