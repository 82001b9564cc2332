// Package resilience provides the two fault-tolerance patterns the speech
// pipeline relies on.
//
// Bulkhead limits concurrent work; the pipeline admits one recording at a
// time because the transcription and diarization sidecars each hold a single
// model in memory. Retry re-issues sidecar calls that failed with a
// retryable error, with exponential backoff:
//
//	bh := resilience.NewBulkhead("speech", 1, resilience.WithMaxWait(resilience.WaitForever))
//	res, err := resilience.ExecuteWithResult(bh, ctx, func() (*Result, error) {
//	    return resilience.Retry(ctx, resilience.DefaultPolicy(), call)
//	})
package resilience
