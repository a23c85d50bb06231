package dto

import (
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
)

type BudgetResponse struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Type     string   `json:"type,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Display  string   `json:"display,omitempty"`
}

type TenderResponse struct {
	Phase              string     `json:"phase,omitempty"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`
	EvaluationCriteria []string   `json:"evaluation_criteria,omitempty"`
}

type ListingResponse struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	Subcategory      string          `json:"subcategory,omitempty"`
	ContractType     string          `json:"contract_type,omitempty"`
	ClientType       string          `json:"client_type,omitempty"`
	Location         string          `json:"location"`
	City             string          `json:"city,omitempty"`
	Sublocality      string          `json:"sublocality,omitempty"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	Budget           *BudgetResponse `json:"budget,omitempty"`
	Urgency          string          `json:"urgency"`
	PostType         string          `json:"post_type"`
	Deadline         *time.Time      `json:"deadline,omitempty"`
	Tender           *TenderResponse `json:"tender,omitempty"`
	ApplicationCount int             `json:"application_count"`
	ViewCount        int             `json:"view_count"`
	BookmarkCount    int             `json:"bookmark_count"`
	Verified         bool            `json:"verified"`
	CreatedAt        time.Time       `json:"created_at"`
}

type ListingPageResponse struct {
	Items []ListingResponse `json:"items"`
	Total int               `json:"total"`
}

func FromListing(l listing.Listing) ListingResponse {
	out := ListingResponse{
		ID:               l.ID,
		Title:            l.Title,
		Description:      l.Description,
		Category:         l.Category,
		Subcategory:      l.Subcategory,
		ContractType:     l.ContractType,
		ClientType:       l.ClientType,
		Location:         l.Location.Display,
		City:             l.Location.City,
		Sublocality:      l.Location.Sublocality,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		Urgency:          string(l.EffectiveUrgency()),
		PostType:         string(l.PostType),
		Deadline:         l.Deadline,
		ApplicationCount: l.ApplicationCount,
		ViewCount:        l.ViewCount,
		BookmarkCount:    l.BookmarkCount,
		Verified:         l.Verified,
		CreatedAt:        l.CreatedAt,
	}
	if l.Budget.HasData() || l.Budget.Display != "" {
		out.Budget = &BudgetResponse{
			Min:      l.Budget.Min,
			Max:      l.Budget.Max,
			Type:     l.Budget.Type,
			Currency: l.Budget.Currency,
			Display:  l.Budget.Display,
		}
	}
	if l.Tender != nil {
		out.Tender = &TenderResponse{
			Phase:              l.Tender.Current,
			SubmissionDeadline: l.Tender.SubmissionDeadline,
			EvaluationCriteria: l.Tender.EvaluationCriteria,
		}
	}
	return out
}

func FromListings(ls []listing.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, FromListing(l))
	}
	return out
}
