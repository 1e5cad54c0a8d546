package catalog

import "errors"

var (
	// ErrNetwork means the GET could not complete: DNS, refused connection,
	// timeout or a non-2xx status.
	ErrNetwork = errors.New("catalog: network error")
	// ErrInvalidFormat means the body was not a JSON array of products.
	ErrInvalidFormat = errors.New("catalog: invalid format")
	// ErrFetchFailed means the fetch failed and there was no cached list to
	// serve instead.
	ErrFetchFailed = errors.New("catalog: fetch failed")
)
