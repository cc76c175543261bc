package ai

import "time"

// ClientOptions carries what every backend constructor needs
type ClientOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}
