package ports

// Notifier surfaces a blocking, user-visible message.
type Notifier interface {
	Alert(msg string)
}
