package api

import (
	"errors"
	"net/http"
	"strings"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DonationHandler holds the donation service dependency.
type DonationHandler struct {
	donationService service.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreateDonationRequest mirrors the donation form; the same limits are enforced client-side.
type CreateDonationRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,min=10,max=1000"`
	Category    string   `json:"category" binding:"required,max=100"`
	Location    string   `json:"location" binding:"required,max=255"`
	DonorName   string   `json:"donorName" binding:"required,max=255"`
	DonorEmail  string   `json:"donorEmail" binding:"required,email,max=255"`
	DonorPhone  string   `json:"donorPhone" binding:"omitempty,max=20"`
	DonorID     string   `json:"donorId"`
	ImageURLs   []string `json:"imageUrls" binding:"required,min=1,dive,url"`
}

// trim strips surrounding whitespace so blank fields fail "required".
func (r *CreateDonationRequest) trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Location = strings.TrimSpace(r.Location)
	r.DonorName = strings.TrimSpace(r.DonorName)
	r.DonorEmail = strings.TrimSpace(r.DonorEmail)
	r.DonorPhone = strings.TrimSpace(r.DonorPhone)
	for i, u := range r.ImageURLs {
		r.ImageURLs[i] = strings.TrimSpace(u)
	}
}

// CreateDonation godoc
// @Summary Post a new donation
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param donation body CreateDonationRequest true "Donation details"
// @Success 201 {object} domain.Donation
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Persistence failure"
// @Router /donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	req.trim()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// The donor reference always comes from the token, never from the body.
	donorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify donor from token.")
		return
	}

	donation, err := h.donationService.CreateDonation(c.Request.Context(), service.NewDonation{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		ImageURLs:   req.ImageURLs,
		DonorID:     donorID,
		DonorName:   req.DonorName,
		DonorEmail:  req.DonorEmail,
		DonorPhone:  req.DonorPhone,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to create donation")
		return
	}

	c.JSON(http.StatusCreated, donation)
}

// ListDonations godoc
// @Summary List every donation, newest first
// @Tags Donations
// @Produce json
// @Success 200 {array} domain.Donation
// @Router /donations [get]
func (h *DonationHandler) ListDonations(c *gin.Context) {
	donations, err := h.donationService.ListDonations(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch donations")
		return
	}
	if donations == nil {
		donations = []domain.Donation{}
	}
	c.JSON(http.StatusOK, donations)
}

// GetDonation godoc
// @Summary Donation detail
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} domain.Donation
// @Failure 404 {object} gin.H
// @Router /donations/{id} [get]
func (h *DonationHandler) GetDonation(c *gin.Context) {
	donation, err := h.donationService.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			abortWithError(c, http.StatusNotFound, "Donation not found")
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch donation")
		return
	}
	c.JSON(http.StatusOK, donation)
}
