package ai

import "strings"

// ProviderName represents an AI provider identifier
type ProviderName string

// Provider name constants
const (
	ProviderNameOpenAI      ProviderName = "openai"
	ProviderNameAnthropic   ProviderName = "anthropic"
	ProviderNameGoogle      ProviderName = "google"
	ProviderNameDeepSeek    ProviderName = "deepseek"
	ProviderNamePlaceholder ProviderName = "placeholder"
)

// String returns the string representation of the provider name
func (p ProviderName) String() string {
	return string(p)
}

// IsValid checks if the provider name is a supported live backend
func (p ProviderName) IsValid() bool {
	switch p {
	case ProviderNameAnthropic, ProviderNameOpenAI, ProviderNameGoogle, ProviderNameDeepSeek:
		return true
	default:
		return false
	}
}

// DefaultModel returns the model used when neither config nor agent sets one
func (p ProviderName) DefaultModel() string {
	switch p {
	case ProviderNameAnthropic:
		return "claude-sonnet-4-5-20250929"
	case ProviderNameGoogle:
		return "gemini-2.5-flash"
	case ProviderNameDeepSeek:
		return "deepseek-chat"
	default:
		return "gpt-4o"
	}
}

// ParseProviderName normalizes user-facing aliases ("claude", "gemini") to provider names.
func ParseProviderName(name string) ProviderName {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "claude":
		return ProviderNameAnthropic
	case "gemini":
		return ProviderNameGoogle
	case "":
		return ProviderNameOpenAI
	default:
		return ProviderName(n)
	}
}

const deepSeekBaseURL = "https://api.deepseek.com/v1/"
