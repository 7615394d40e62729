package telegram

// Client defines an interface for the outbound Telegram operations this
// system needs. This helps in decoupling the application logic from the
// specific bot library and lets tests substitute a fake transport.
type Client interface {
	// SendMessage sends HTML-formatted text to the configured chat and
	// returns the provider-assigned message id.
	SendMessage(text string) (messageID string, err error)

	// DeleteMessage deletes a previously sent message by id. A refusal
	// from the provider (commonly: the message is older than the deletion
	// retention window) is returned as an error; callers treat it as
	// non-fatal.
	DeleteMessage(messageID string) error
}
