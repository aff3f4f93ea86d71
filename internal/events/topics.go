package events

// Topic constants for domain events emitted by the booking platform.
const (
	TopicBookingCreated       = "booking.created"
	TopicBookingStatusChanged = "booking.status_changed"
	TopicLedgerEntryPosted    = "ledger.entry_posted"
)

// DefaultTopics returns the canonical list of topics that support notifications.
// Bus.Emit rejects anything outside this list so a typo never reaches the
// domain_events table.
func DefaultTopics() []string {
	return []string{
		TopicBookingCreated,
		TopicBookingStatusChanged,
		TopicLedgerEntryPosted,
	}
}

func knownTopic(topic string) bool {
	for _, t := range DefaultTopics() {
		if t == topic {
			return true
		}
	}
	return false
}
