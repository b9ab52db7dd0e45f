// Package feed reads modification records out of a Unimod XML feed.
//
// The feed is consumed as a stream: records are yielded one at a time in
// document order and the whole file is never held in memory. Feeds with a
// ".gz" suffix are read through a gzip decompressor.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	uerrors "unimoddb/internal/errors"
)

// Namespace is the Unimod 2.0 schema namespace
const Namespace = "http://www.unimod.org/xmlns/schema/unimod_2"

// Record is one modification record extracted from the feed
type Record struct {
	ID          int
	Name        string
	FullName    string
	MonoMass    float64
	AvgMass     float64
	Composition string
	Sites       []Specificity
}

// Specificity is one (site, classification) pair attached to a record
type Specificity struct {
	Site           string
	Classification string
}

// Reader streams records from a Unimod XML document
type Reader struct {
	dec     *xml.Decoder
	closers []io.Closer
}

// Open opens the feed at path. The caller owns the returned Reader and must
// Close it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}

	r := &Reader{closers: []io.Closer{f}}

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip feed: %w", err)
		}
		r.closers = append([]io.Closer{gz}, r.closers...)
		src = gz
	}

	r.dec = xml.NewDecoder(src)
	return r, nil
}

// NewReader streams records from src; used by tests and callers that already
// hold the document
func NewReader(src io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(src)}
}

// Close releases the underlying file handles
func (r *Reader) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// xmlDelta mirrors the <umod:delta> element of a mod
type xmlDelta struct {
	MonoMass    string `xml:"mono_mass,attr"`
	AvgMass     string `xml:"avge_mass,attr"`
	Composition string `xml:"composition,attr"`
}

// xmlSpecificity mirrors the <umod:specificity> element of a mod
type xmlSpecificity struct {
	Site           string `xml:"site,attr"`
	Classification string `xml:"classification,attr"`
}

// xmlMod mirrors the <umod:mod> element
type xmlMod struct {
	Title         string           `xml:"title,attr"`
	FullName      string           `xml:"full_name,attr"`
	RecordID      string           `xml:"record_id,attr"`
	Delta         *xmlDelta        `xml:"http://www.unimod.org/xmlns/schema/unimod_2 delta"`
	Specificities []xmlSpecificity `xml:"http://www.unimod.org/xmlns/schema/unimod_2 specificity"`
}

// Next returns the next modification record, or io.EOF once the document is
// exhausted. A record missing a required field aborts the stream with a
// MALFORMED_FEED error; the stream must not be read further afterwards.
func (r *Reader) Next() (*Record, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, uerrors.Wrap(uerrors.MalformedFeed, "feed is not well-formed XML", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "mod" || start.Name.Space != Namespace {
			continue
		}

		var m xmlMod
		if err := r.dec.DecodeElement(&m, &start); err != nil {
			return nil, uerrors.Wrap(uerrors.MalformedFeed, "failed to decode mod element", err)
		}

		rec, err := m.toRecord()
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// toRecord validates the raw element and converts it to a Record
func (m *xmlMod) toRecord() (*Record, error) {
	if m.Title == "" {
		return nil, uerrors.New(uerrors.MalformedFeed, "mod element missing title")
	}
	if m.FullName == "" {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q missing full_name", m.Title)
	}
	if m.RecordID == "" {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q missing record_id", m.Title)
	}
	if m.Delta == nil {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q missing delta", m.Title)
	}

	id, err := strconv.Atoi(m.RecordID)
	if err != nil {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q has non-integer record_id %q", m.Title, m.RecordID)
	}

	monoMass, err := strconv.ParseFloat(m.Delta.MonoMass, 64)
	if err != nil {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q has invalid mono_mass %q", m.Title, m.Delta.MonoMass)
	}

	avgMass, err := strconv.ParseFloat(m.Delta.AvgMass, 64)
	if err != nil {
		return nil, uerrors.Newf(uerrors.MalformedFeed, "mod %q has invalid avge_mass %q", m.Title, m.Delta.AvgMass)
	}

	rec := &Record{
		ID:          id,
		Name:        m.Title,
		FullName:    m.FullName,
		MonoMass:    monoMass,
		AvgMass:     avgMass,
		Composition: m.Delta.Composition,
	}

	for _, s := range m.Specificities {
		rec.Sites = append(rec.Sites, Specificity{
			Site:           s.Site,
			Classification: s.Classification,
		})
	}

	return rec, nil
}
