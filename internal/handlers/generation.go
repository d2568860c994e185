package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/midgardbridge/dealreport/internal/services"
)

type GenerationHandler struct {
	generation services.GenerationService
}

func NewGenerationHandler(generation services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

type bidIndexBody struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type createGenerationBody struct {
	DealNb      int `json:"dealNb"`
	Conventions struct {
		Bids        string `json:"bids"`
		ProfileBids string `json:"profileBids"`
	} `json:"conventions"`
	Options *struct {
		SuitTolerance int           `json:"suitTolerance"`
		HCPTolerance  int           `json:"hcpTolerance"`
		BidIndex      *bidIndexBody `json:"bidIndex"`
	} `json:"options"`
}

// POST /api/generate
func (h *GenerationHandler) CreateGeneration(c *gin.Context) {
	var body createGenerationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	params := services.CreateRequestParams{
		DealCount:              body.DealNb,
		ConventionsBids:        body.Conventions.Bids,
		ConventionsProfileBids: body.Conventions.ProfileBids,
		BidIndexMin:            -1,
		BidIndexMax:            -1,
	}
	if body.Options != nil {
		params.SuitTolerance = body.Options.SuitTolerance
		params.HCPTolerance = body.Options.HCPTolerance
		if body.Options.BidIndex != nil {
			if body.Options.BidIndex.Min != nil {
				params.BidIndexMin = *body.Options.BidIndex.Min
			}
			if body.Options.BidIndex.Max != nil {
				params.BidIndexMax = *body.Options.BidIndex.Max
			}
		}
	}

	req, err := h.generation.CreateRequest(c.Request.Context(), params)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_generation_request", err)
		return
	}
	RespondOK(c, gin.H{"request": req})
}

// GET /api/generations
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
	requests, err := h.generation.ListRequests(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_generations_failed", err)
		return
	}
	RespondOK(c, gin.H{"requests": requests})
}
