package dataset

import "fmt"

// FetchError reports that the dataset could not be retrieved: the request
// failed outright or the response carried a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dataset: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("dataset: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response or file body that is not a valid feature
// collection.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReprojectionError reports that the coordinate transform could not be set
// up or applied. Nothing partial is exposed when this happens.
type ReprojectionError struct {
	Err error
}

func (e *ReprojectionError) Error() string {
	return fmt.Sprintf("dataset: reproject: %v", e.Err)
}

func (e *ReprojectionError) Unwrap() error {
	return e.Err
}
