package oaipmh

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html/charset"

	"oai-harvester/internal/usecase/harvest"
)

// Language tags mapped onto the Spanish and English Dublin Core fields.
const (
	langES = "es-ES"
	langEN = "en-US"
)

// codeNoRecordsMatch is the OAI error code for an empty result list.
const codeNoRecordsMatch = "noRecordsMatch"

// decode unmarshals an OAI-PMH document. Any XML or root element failure is
// a ProtocolParseError.
func decode(data []byte) (*envelope, error) {
	var env envelope
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&env); err != nil {
		return nil, &harvest.ProtocolParseError{Err: err}
	}
	return &env, nil
}

// oaiError returns the first <error> element as an *harvest.OAIError, ignoring
// the codes in allowed.
func (env *envelope) oaiError(allowed ...string) error {
	for _, e := range env.Errors {
		code := strings.TrimSpace(e.Code)
		if slices.Contains(allowed, code) {
			continue
		}
		return &harvest.OAIError{Code: code, Message: strings.TrimSpace(e.Message)}
	}
	return nil
}

func (env *envelope) hasError(code string) bool {
	for _, e := range env.Errors {
		if strings.TrimSpace(e.Code) == code {
			return true
		}
	}
	return false
}

// ParseListRecords decodes one ListRecords response.
//
// Records lacking a header, an identifier or an oai_dc metadata block are
// reported in Page.Skipped and left out of Page.Records. The resumption token
// is trimmed; a blank token means the list is complete. A noRecordsMatch
// error yields an empty final page.
func ParseListRecords(data []byte) (*harvest.Page, error) {
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := env.oaiError(codeNoRecordsMatch); err != nil {
		return nil, err
	}
	if env.ListRecords == nil {
		if env.hasError(codeNoRecordsMatch) {
			return &harvest.Page{}, nil
		}
		return nil, &harvest.ProtocolParseError{Err: errors.New("response has no ListRecords element")}
	}

	block := env.ListRecords
	page := &harvest.Page{
		Records: make([]harvest.RawRecord, 0, len(block.Records)),
	}
	for i, rec := range block.Records {
		raw, reason := toRawRecord(rec)
		if reason != "" {
			notice := harvest.SkipNotice{Index: i, Reason: reason}
			if rec.Header != nil {
				notice.Identifier = strings.TrimSpace(rec.Header.Identifier)
			}
			page.Skipped = append(page.Skipped, notice)
			continue
		}
		page.Records = append(page.Records, raw)
	}
	if block.Token != nil {
		page.Token = strings.TrimSpace(block.Token.Value)
	}
	return page, nil
}

func toRawRecord(rec recordElement) (harvest.RawRecord, string) {
	switch {
	case rec.Header == nil:
		return harvest.RawRecord{}, "missing header"
	case strings.TrimSpace(rec.Header.Identifier) == "":
		return harvest.RawRecord{}, "missing identifier"
	case rec.Metadata == nil:
		if rec.Header.Status == "deleted" {
			return harvest.RawRecord{}, "deleted record"
		}
		return harvest.RawRecord{}, "missing metadata"
	case rec.Metadata.DC == nil:
		return harvest.RawRecord{}, "metadata is not oai_dc"
	}

	h, dc := rec.Header, rec.Metadata.DC
	return harvest.RawRecord{
		Identifier: strings.TrimSpace(h.Identifier),
		Datestamp:  strings.TrimSpace(h.Datestamp),
		SetSpec:    strings.TrimSpace(h.SetSpec),

		TitleES:       firstLang(dc.Titles, langES),
		TitleEN:       firstLang(dc.Titles, langEN),
		Creator:       first(dc.Creators),
		Publisher:     first(dc.Publishers),
		Type:          first(dc.Types),
		Format:        first(dc.Formats),
		IdentifierURL: first(dc.Identifiers),
		Language:      first(dc.Languages),
		Relation:      first(dc.Relations),
		Coverage:      first(dc.Coverages),
		Rights:        first(dc.Rights),
		Date:          first(dc.Dates),

		SubjectsES:     allLang(dc.Subjects, langES),
		SubjectsEN:     allLang(dc.Subjects, langEN),
		DescriptionsES: allLang(dc.Descriptions, langES),
		DescriptionsEN: allLang(dc.Descriptions, langEN),
		Sources:        nonEmpty(dc.Sources),
	}, ""
}

// first returns the first element's text, trimmed. Later elements are ignored.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func firstLang(values []langValue, lang string) string {
	for _, v := range values {
		if v.Lang == lang {
			return strings.TrimSpace(v.Value)
		}
	}
	return ""
}

func allLang(values []langValue, lang string) []string {
	var out []string
	for _, v := range values {
		if v.Lang != lang {
			continue
		}
		if s := strings.TrimSpace(v.Value); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// describe is used in log attributes for unexpected documents.
func describe(data []byte) string {
	const n = 200
	if len(data) > n {
		return fmt.Sprintf("%s... [%d bytes]", data[:n], len(data))
	}
	return string(data)
}
