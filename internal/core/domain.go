package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and seed format for expense dates.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ExpenseRecord is a single expense as exposed by a record provider.
	ExpenseRecord struct {
		ID              string
		Description     string
		Amount          Money
		Category        string
		Department      string
		Date            Date
		Status          Status
		AttachmentCount int
	}
)

var (
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrEmptyID             = errors.New("empty id")
	ErrNegativeAttachments = errors.New("negative attachment count")
)

// Status is the approval state of an expense. Only the declared constants
// are valid; the zero value is not a status.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus maps a lowercase status name to its Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusRejected
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// Label is the capitalized form shown in badges and selects.
func (s Status) Label() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// StatusFilter selects records by status. Values are built with FilterAll,
// OnlyStatus or ParseStatusFilter. The zero value matches nothing.
type StatusFilter struct {
	any    bool
	status Status
}

// FilterAll matches every status.
var FilterAll = StatusFilter{any: true}

// OnlyStatus matches records with the given status.
func OnlyStatus(s Status) StatusFilter {
	if !s.Valid() {
		return StatusFilter{}
	}
	return StatusFilter{status: s}
}

// ParseStatusFilter maps "" and "all" to FilterAll and a status name to
// OnlyStatus. Anything else yields the zero filter and ok == false.
func ParseStatusFilter(s string) (f StatusFilter, ok bool) {
	if s == "" || s == "all" {
		return FilterAll, true
	}
	st, err := ParseStatus(s)
	if err != nil {
		return StatusFilter{}, false
	}
	return OnlyStatus(st), true
}

// Matches reports whether a record with status s passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	if f.any {
		return true
	}
	return f.status != 0 && f.status == s
}

// Value returns the query-string form of the filter.
func (f StatusFilter) Value() string {
	switch {
	case f.any:
		return "all"
	case f.status.Valid():
		return f.status.String()
	}
	return "none"
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Display renders the date as "Sep 15, 2023".
func (d Date) Display() string {
	return d.Format("Jan 2, 2006")
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (e ExpenseRecord) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.AttachmentCount < 0 {
		return ErrNegativeAttachments
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// AttachmentLabel renders "1 attachment" or "N attachments".
func (e ExpenseRecord) AttachmentLabel() string {
	if e.AttachmentCount == 1 {
		return "1 attachment"
	}
	return fmt.Sprintf("%d attachments", e.AttachmentCount)
}
