package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
)

// Seeder loads a demo dataset: one manager account plus a spread of jobs and
// tenders across the major cities, enough to exercise the map, the filters
// and the tender sweep.
type Seeder struct {
	listings repository.ListingRepository
	users    repository.UserRepository
	logger   *log.Logger
}

func New(listings repository.ListingRepository, users repository.UserRepository, logger *log.Logger) *Seeder {
	return &Seeder{listings: listings, users: users, logger: logger}
}

type seedListing struct {
	title       string
	category    string
	subcategory string
	contract    string
	city        string
	sublocality string
	lat, lng    float64
	budgetMin   float64
	budgetMax   float64
	postType    listing.PostType
	urgency     listing.Urgency
	tenderDays  int
}

var demoListings = []seedListing{
	{"Remont dachu kamienicy", "budowlane", "dekarstwo", "umowa o dzieło", "Warszawa", "Mokotów", 52.1934, 21.0450, 15000, 40000, listing.PostTypeJob, listing.UrgencyHigh, 0},
	{"Malowanie klatki schodowej", "wykończeniowe", "malarstwo", "umowa zlecenie", "Warszawa", "Wola", 52.2394, 20.9617, 3000, 8000, listing.PostTypeJob, listing.UrgencyMedium, 0},
	{"Przegląd instalacji elektrycznej", "instalacje", "elektryka", "umowa o dzieło", "Kraków", "", 50.0647, 19.9450, 2000, 4500, listing.PostTypeJob, listing.UrgencyLow, 0},
	{"Wymiana pionów wodnych", "instalacje", "hydraulika", "umowa o dzieło", "Wrocław", "", 51.1079, 17.0385, 25000, 60000, listing.PostTypeTender, listing.UrgencyMedium, 5},
	{"Termomodernizacja bloku", "budowlane", "ocieplenia", "kontrakt", "Poznań", "", 52.4064, 16.9252, 150000, 400000, listing.PostTypeTender, listing.UrgencyLow, 21},
	{"Sprzątanie części wspólnych", "utrzymanie", "sprzątanie", "umowa zlecenie", "Gdańsk", "", 54.3520, 18.6466, 1500, 3000, listing.PostTypeJob, listing.UrgencyLow, 0},
	{"Naprawa domofonów", "instalacje", "teletechnika", "umowa o dzieło", "Łódź", "", 51.7592, 19.4560, 800, 2000, listing.PostTypeJob, listing.UrgencyHigh, 0},
	{"Modernizacja kotłowni", "instalacje", "ogrzewanie", "kontrakt", "Katowice", "", 50.2649, 19.0238, 80000, 180000, listing.PostTypeTender, listing.UrgencyMedium, 3},
}

func (s *Seeder) Run(ctx context.Context) error {
	owner, err := s.seedManager(ctx)
	if err != nil {
		return err
	}

	created := 0
	now := time.Now().UTC()
	for i, d := range demoListings {
		l := buildListing(d, owner, now.Add(-time.Duration(i)*6*time.Hour))
		if err := s.listings.Create(ctx, l); err != nil {
			return fmt.Errorf("seed listing %q: %w", d.title, err)
		}
		created++
	}

	if s.logger != nil {
		s.logger.Printf("[Seeder] done | listings=%d", created)
	}
	return nil
}

func (s *Seeder) seedManager(ctx context.Context) (uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	user := repository.User{
		ID:           uuid.New(),
		Email:        "demo@zlecenia.local",
		PasswordHash: string(hash),
		DisplayName:  "Wspólnota Demo",
		Role:         "manager",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			existing, ferr := s.users.FindByEmail(ctx, user.Email)
			if ferr != nil {
				return uuid.Nil, ferr
			}
			return existing.ID, nil
		}
		return uuid.Nil, err
	}
	return user.ID, nil
}

func buildListing(d seedListing, owner uuid.UUID, createdAt time.Time) listing.Listing {
	lat, lng := d.lat, d.lng
	bmin, bmax := d.budgetMin, d.budgetMax

	l := listing.Listing{
		ID:           uuid.New(),
		Title:        d.title,
		Description:  "Zlecenie demonstracyjne: " + d.title,
		Category:     d.category,
		Subcategory:  d.subcategory,
		ContractType: d.contract,
		ClientType:   "wspólnota",
		Location: listing.Location{
			Display:     d.city,
			City:        d.city,
			Sublocality: d.sublocality,
		},
		Latitude:  &lat,
		Longitude: &lng,
		Budget: listing.Budget{
			Min:      &bmin,
			Max:      &bmax,
			Type:     "fixed",
			Currency: "PLN",
			Display:  fmt.Sprintf("%.0f–%.0f zł", bmin, bmax),
		},
		Urgency:   d.urgency,
		PostType:  d.postType,
		Status:    listing.StatusActive,
		Verified:  true,
		OwnerID:   owner,
		CreatedAt: createdAt,
	}

	if d.postType == listing.PostTypeTender {
		deadline := createdAt.Add(time.Duration(d.tenderDays) * 24 * time.Hour)
		l.Tender = &listing.TenderPhase{
			Current:            "submission",
			SubmissionDeadline: &deadline,
			EvaluationCriteria: []string{"cena", "termin realizacji", "gwarancja"},
		}
	}
	return l
}
