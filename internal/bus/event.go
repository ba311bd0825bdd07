package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the client. Subscribers filter by namespace
// prefix, e.g. "session." receives both changed and cleared.
const (
	KindSessionChanged  = "session.changed"
	KindSessionCleared  = "session.cleared"
	KindAuthStepChanged = "auth.step_changed"
	KindChatAppended    = "chat.message_appended"
	KindChatTyping      = "chat.typing"
	KindFeedPageLoaded  = "feed.page_loaded"
	KindVisitSubmitted  = "visit.submitted"
	KindPaymentLink     = "payment.link_created"
)
