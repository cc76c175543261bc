package news

import (
	"fmt"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// ResolveLabel returns the supplied label when valid, otherwise derives one from the score.
// With neither a valid label nor a score the result is SentimentUnknown.
func (s *Sentiment) ResolveLabel() SentimentLabel {
	if s == nil {
		return SentimentUnknown
	}
	if s.Label.Valid() {
		return s.Label
	}
	if s.Score == nil {
		return SentimentUnknown
	}
	return LabelForScore(*s.Score)
}

// LabelForScore maps a score to a label using the fixed thresholds
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score < NegativeThreshold:
		return SentimentNegative
	case score > PositiveThreshold:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// Validate rejects scores outside [-1, 1]
func (r *AnalysisRequest) Validate() error {
	if r == nil {
		return errors.NewValidationError("request", "is required", nil)
	}

	var errs errors.MultiError
	for i, a := range r.NewsArticles {
		if a.Sentiment == nil || a.Sentiment.Score == nil {
			continue
		}
		if score := *a.Sentiment.Score; score < -1 || score > 1 {
			errs.Add(errors.NewValidationError(fmt.Sprintf("newsArticles[%d].sentiment.score", i), "must be within [-1, 1]", score))
		}
	}
	return errs.ToError()
}
