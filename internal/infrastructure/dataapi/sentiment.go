package dataapi

import (
	"context"
	"net/url"
	"sync"

	"homepedia-map/internal/domain/model"
)

// sentimentPayload is the /comment/data/sentiment-terms body: term lists
// keyed by sentiment.
type sentimentPayload map[string][]string

// FetchSentimentTerms fetches the top terms and the per-sentiment terms of a
// zone. The two calls are issued concurrently; the operation fails only when
// both do, otherwise the failing half is returned empty.
func (c *Client) FetchSentimentTerms(ctx context.Context, code string) (*model.SentimentTerms, error) {
	var (
		wg           sync.WaitGroup
		sentiments   sentimentPayload
		top          []string
		sentimentErr error
		topErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sentimentErr = c.getJSON(ctx, "/comment/data/sentiment-terms", url.Values{"code": {code}}, &sentiments)
	}()
	go func() {
		defer wg.Done()
		topErr = c.getJSON(ctx, "/comment/data/top-terms", url.Values{"code": {code}}, &top)
	}()
	wg.Wait()

	if sentimentErr != nil && topErr != nil {
		c.log.Warn("termes de sentiment indisponibles", "code", code, "err", sentimentErr)
		return nil, sentimentErr
	}

	terms := &model.SentimentTerms{Top: top}
	if sentiments != nil {
		terms.Positive = sentiments["positive"]
		terms.Negative = sentiments["negative"]
	}
	if terms.Top == nil {
		terms.Top = []string{}
	}
	if terms.Positive == nil {
		terms.Positive = []string{}
	}
	if terms.Negative == nil {
		terms.Negative = []string{}
	}
	return terms, nil
}
