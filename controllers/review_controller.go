package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/services"
)

// SubmitReviewRequest represents the request body for reviewing a completed order
type SubmitReviewRequest struct {
	OrderID uint    `json:"order_id" binding:"required"`
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(config.GetDB())
}

// SubmitReview handles POST /api/v1/reviews
func SubmitReview(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := reviewService().Submit(c.Request.Context(), requester, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, review)
}

// LatestReviews handles GET /api/v1/reviews/latest?limit= (public)
func LatestReviews(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}

	reviews, err := reviewService().Latest(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, reviews)
}
