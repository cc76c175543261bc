package ai

import "context"

// PlaceholderAnalysis is returned instead of a live completion when no credential is configured.
const PlaceholderAnalysis = "This is a placeholder analysis. Configure an API key for the analysis backend to receive a generated report."

// PlaceholderClient answers every request with PlaceholderAnalysis without any network I/O.
type PlaceholderClient struct{}

var _ Client = PlaceholderClient{}

// NewPlaceholderClient returns the offline client
func NewPlaceholderClient() PlaceholderClient {
	return PlaceholderClient{}
}

func (PlaceholderClient) Provider() ProviderName { return ProviderNamePlaceholder }

func (PlaceholderClient) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{
		Model: req.Model,
		Choices: []Choice{{
			Message:      Message{Role: RoleAssistant, Content: PlaceholderAnalysis},
			FinishReason: FinishReasonStop,
		}},
	}, nil
}
