package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateReviewRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	review, err := h.reviewService.Create(ctx, actor(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.ReviewToReviewResponse(review), "Review created successfully")
}

func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	review, err := h.reviewService.GetByID(c.UserContext(), optionalActor(c), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.ReviewToReviewResponse(review), "Review retrieved successfully")
}

func (h *ReviewHandler) ListCourseReviews(c *fiber.Ctx) error {
	params, _ := reqctx.Params[dto.CourseReviewsParams](c)
	q := query[dto.ReviewListQuery](c)

	reviews, total, err := h.reviewService.ListByCourse(c.UserContext(), optionalActor(c), params.CourseID, q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.ReviewsToReviewResponses(reviews), total, q.Page, q.Limit, "Reviews retrieved successfully")
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateReviewRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	review, err := h.reviewService.Update(ctx, actor(c), pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.ReviewToReviewResponse(review), "Review updated successfully")
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	if err := h.reviewService.Delete(ctx, actor(c), id); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *ReviewHandler) ApproveReview(c *fiber.Ctx) error {
	req, ok := body[dto.ApproveReviewRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	review, err := h.reviewService.SetApproved(c.UserContext(), pathID(c), *req.IsApproved)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.ReviewToReviewResponse(review), "Review moderation updated")
}
