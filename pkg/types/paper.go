// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Priority orders the reading queue. Lower values are read first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

var priorityNames = []string{"High", "Medium", "Low"}

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// ParsePriority accepts a priority name (case-insensitive) or its number.
func ParsePriority(s string) (Priority, error) {
	i, err := parseEnum(s, priorityNames)
	if err != nil {
		return 0, fmt.Errorf("invalid priority %q (want high, medium, or low)", s)
	}
	return Priority(i), nil
}

// MarshalText writes the lowercase priority name.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(strings.ToLower(p.String())), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ReadStatus records how thoroughly a paper was read.
type ReadStatus int

const (
	StatusIntro ReadStatus = iota
	StatusPartial
	StatusSkim
	StatusRead
)

var statusNames = []string{"Intro", "Partial", "Skim", "Read"}

func (s ReadStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("ReadStatus(%d)", int(s))
	}
	return statusNames[s]
}

// Valid reports whether s is one of the defined statuses.
func (s ReadStatus) Valid() bool {
	return s >= StatusIntro && s <= StatusRead
}

// ParseReadStatus accepts a status name (case-insensitive) or its number.
func ParseReadStatus(s string) (ReadStatus, error) {
	i, err := parseEnum(s, statusNames)
	if err != nil {
		return 0, fmt.Errorf("invalid status %q (want intro, partial, skim, or read)", s)
	}
	return ReadStatus(i), nil
}

func (s ReadStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

func (s *ReadStatus) UnmarshalText(b []byte) error {
	v, err := ParseReadStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func parseEnum(s string, names []string) (int, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(s, n) || s == fmt.Sprint(i) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

// PaperFields holds the bibliographic columns shared by queued and read papers.
type PaperFields struct {
	Authors string `json:"authors" yaml:"authors"`
	Title   string `json:"title" yaml:"title"`
	Venue   string `json:"venue" yaml:"venue"`
	Year    int    `json:"year" yaml:"year"`
	URL     string `json:"url" yaml:"url"`
}

// FieldsFromMetadata copies the persisted columns out of a lookup result.
func FieldsFromMetadata(m *Metadata) PaperFields {
	return PaperFields{
		Authors: m.Authors,
		Title:   m.Title,
		Venue:   m.Venue,
		Year:    m.Year,
		URL:     m.URL,
	}
}

// QueuedPaper is a paper waiting to be read.
type QueuedPaper struct {
	ID          int64 `json:"id" yaml:"id"`
	PaperFields `yaml:",inline"`
	DateAdded   time.Time `json:"date_added" yaml:"date_added"`
	Priority    Priority  `json:"priority" yaml:"priority"`
}

// ReadPaper is a paper that has been read, with the reader's note.
type ReadPaper struct {
	ID          int64 `json:"id" yaml:"id"`
	PaperFields `yaml:",inline"`
	DateAdded   time.Time  `json:"date_added" yaml:"date_added"`
	DateRead    time.Time  `json:"date_read" yaml:"date_read"`
	Status      ReadStatus `json:"status" yaml:"status"`
	Note        string     `json:"note" yaml:"note"`
}
