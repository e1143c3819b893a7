// Package resilience groups the fault tolerance helpers used by the OAI-PMH client.
//
// The package supports:
//   - Circuit breakers keyed by repository host
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.OAIEndpointConfig(host))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchPage()
//	})
//
//	err := retry.WithBackoff(ctx, retry.OAIRequestConfig(3), func() error {
//	    return performOperation()
//	})
package resilience
