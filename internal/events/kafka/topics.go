package kafka

// EventType identifies an authentication event published to Kafka.
type EventType string

const (
	EventUserRegistered     EventType = "auth.user.registered"
	EventUserLoggedIn       EventType = "auth.user.logged_in"
	EventUserLoggedOut      EventType = "auth.user.logged_out"
	EventTokenReuseDetected EventType = "auth.token.reuse_detected"
)
