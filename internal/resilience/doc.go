// Package resilience groups the reliability patterns used around external
// collaborators: circuit breakers for the feed endpoints, AI APIs and the
// document store, and retry logic with exponential backoff and jitter.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return performOperation()
//	})
package resilience
