package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"zlecenia/internal/delivery/http/dto"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/domain/listing"
	"zlecenia/internal/pkg/response"
	"zlecenia/internal/usecase"
)

type ListingPublishHandler struct {
	uc usecase.ListingPublishUsecase
}

func NewListingPublishHandler(uc usecase.ListingPublishUsecase) *ListingPublishHandler {
	return &ListingPublishHandler{uc: uc}
}

func (h *ListingPublishHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/", h.HandlePublish)
}

type publishRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	ContractType string `json:"contract_type"`
	ClientType   string `json:"client_type"`

	City        string   `json:"city"`
	Sublocality string   `json:"sublocality"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	BudgetMin      *float64 `json:"budget_min"`
	BudgetMax      *float64 `json:"budget_max"`
	BudgetType     string   `json:"budget_type"`
	BudgetCurrency string   `json:"budget_currency"`

	PostType                 string     `json:"post_type"`
	Urgency                  string     `json:"urgency"`
	Deadline                 *time.Time `json:"deadline"`
	TenderSubmissionDeadline *time.Time `json:"tender_submission_deadline"`
	TenderEvaluationCriteria []string   `json:"tender_evaluation_criteria"`
}

// Only managers publish listings; contractors browse and apply.
func (h *ListingPublishHandler) HandlePublish(c fiber.Ctx) error {
	if middleware.RoleFromCtx(c) != "manager" {
		return middleware.NewAppError(fiber.StatusForbidden, "tylko zarządcy mogą dodawać zlecenia", nil, nil)
	}

	var req publishRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	l, err := h.uc.Publish(c.Context(), middleware.UserIDFromCtx(c), usecase.PublishParams{
		Title:                    req.Title,
		Description:              req.Description,
		Category:                 req.Category,
		Subcategory:              req.Subcategory,
		ContractType:             req.ContractType,
		ClientType:               req.ClientType,
		City:                     req.City,
		Sublocality:              req.Sublocality,
		Address:                  req.Address,
		Latitude:                 req.Latitude,
		Longitude:                req.Longitude,
		BudgetMin:                req.BudgetMin,
		BudgetMax:                req.BudgetMax,
		BudgetType:               req.BudgetType,
		BudgetCurrency:           req.BudgetCurrency,
		PostType:                 listing.PostType(req.PostType),
		Urgency:                  listing.Urgency(req.Urgency),
		Deadline:                 req.Deadline,
		TenderSubmissionDeadline: req.TenderSubmissionDeadline,
		TenderEvaluationCriteria: req.TenderEvaluationCriteria,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "zlecenie opublikowane", dto.FromListing(l))
}
