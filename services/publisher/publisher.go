package publisher

// Publisher represents a service for announcing newly discovered courses
type Publisher interface {
	// Publish publishes a message to the stream
	Publish(message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
