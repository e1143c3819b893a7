// Package oaipmh implements the OAI-PMH 2.0 client used by the harvester:
// request URL construction, a rate-limited HTTP transport with per-host
// circuit breakers, and decoding of ListRecords, Identify and ListSets responses.
package oaipmh

import (
	"errors"
	"net/url"
	"strings"
)

// OAI-PMH verbs issued by the harvester.
const (
	VerbIdentify    = "Identify"
	VerbListRecords = "ListRecords"
	VerbListSets    = "ListSets"
)

var (
	ErrNoEndpoint = errors.New("request: an endpoint is required")
	ErrBadVerb    = errors.New("request: unsupported verb")
)

// Request holds the arguments of one protocol request.
type Request struct {
	Verb            string
	MetadataPrefix  string
	ResumptionToken string
	Set             string
}

// URL returns endpoint?verb=... with the arguments the verb accepts.
// A resumption token is an exclusive argument: when present it is the only one sent.
func (r Request) URL(endpoint string) (string, error) {
	if endpoint == "" {
		return "", ErrNoEndpoint
	}
	switch r.Verb {
	case VerbIdentify, VerbListRecords, VerbListSets:
	default:
		return "", ErrBadVerb
	}

	values := url.Values{}
	values.Add("verb", r.Verb)

	switch {
	case r.ResumptionToken != "" && r.Verb != VerbIdentify:
		values.Add("resumptionToken", r.ResumptionToken)
	case r.Verb == VerbListRecords:
		if r.MetadataPrefix != "" {
			values.Add("metadataPrefix", r.MetadataPrefix)
		}
		if r.Set != "" {
			values.Add("set", r.Set)
		}
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + values.Encode(), nil
}
