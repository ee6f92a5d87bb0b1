package rewrite

import "errors"

// ErrContentTooLong indicates the unit content exceeds the input token limit.
var ErrContentTooLong = errors.New("content exceeds input token limit")

// ErrEmptyResponse indicates the API returned a completion with no choices.
var ErrEmptyResponse = errors.New("empty response from API")
