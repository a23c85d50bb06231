package listing

import (
	"time"

	"github.com/google/uuid"
)

type PostType string

const (
	PostTypeJob    PostType = "job"
	PostTypeTender PostType = "tender"
)

func ValidPostType(t PostType) bool {
	switch t {
	case PostTypeJob, PostTypeTender:
		return true
	default:
		return false
	}
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusClosed   Status = "closed"
	StatusArchived Status = "archived"
)

// Location is either a plain display string or a structured city+sublocality
// pair; older rows only carry the display string.
type Location struct {
	Display     string
	City        string
	Sublocality string
}

// Budget holds the advertised budget. All fields are optional; a listing with
// neither Min nor Max set is treated as having no budget data at all.
type Budget struct {
	Min      *float64
	Max      *float64
	Type     string
	Currency string
	Display  string
}

// HasData reports whether any budget figure was provided.
func (b Budget) HasData() bool {
	return b.Min != nil || b.Max != nil
}

// EffectiveMin defaults a missing minimum to zero.
func (b Budget) EffectiveMin() float64 {
	if b.Min != nil {
		return *b.Min
	}
	return 0
}

// EffectiveMax defaults a missing maximum to the minimum when present,
// otherwise to +inf semantics expressed by the caller.
func (b Budget) EffectiveMax() (float64, bool) {
	if b.Max != nil {
		return *b.Max, true
	}
	if b.Min != nil {
		return *b.Min, true
	}
	return 0, false
}

type TenderPhase struct {
	Current            string
	SubmissionDeadline *time.Time
	EvaluationCriteria []string
}

type Listing struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     string
	Subcategory  string
	ContractType string
	ClientType   string
	Location     Location
	Latitude     *float64
	Longitude    *float64
	Budget       Budget
	Urgency      Urgency
	// Urgent is the legacy boolean flag; when set it is read as UrgencyHigh.
	Urgent   bool
	PostType PostType
	Status   Status
	Deadline *time.Time
	Tender   *TenderPhase

	ApplicationCount int
	ViewCount        int
	BookmarkCount    int
	Verified         bool

	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// EffectiveUrgency folds the legacy urgent flag into the three-level scale.
func (l Listing) EffectiveUrgency() Urgency {
	if l.Urgency != "" {
		return l.Urgency
	}
	if l.Urgent {
		return UrgencyHigh
	}
	return UrgencyLow
}

// HasCoordinates reports whether the listing can be placed on the map.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
