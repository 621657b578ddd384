// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with a configurable number of
// attempts and initial delay, doubling the wait up to thirty seconds.
// Provider adapters use it for discovery calls that hit API rate limits; a
// classifier given with [WithRetryable] stops at the first error that
// retrying cannot fix.
package retry
