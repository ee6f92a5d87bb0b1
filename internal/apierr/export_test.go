package apierr

// Test-only exports for internal functions.
var ParseRetryAfter = parseRetryAfter
