package model

import "errors"

var (
	// ErrExtractionFailed wraps every failure of the extraction call itself:
	// transport errors, non-2xx statuses and undecodable payloads.
	ErrExtractionFailed = errors.New("media extraction failed")

	// ErrMediaNotFound means the extraction call succeeded but the payload
	// carried no candidate the selector could use.
	ErrMediaNotFound = errors.New("media not found")
)
