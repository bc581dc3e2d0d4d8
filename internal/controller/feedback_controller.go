package controller

import (
	"strings"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/pkg/serverutils"
	"ai-videosearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/feedback/v1")
	h.Post("", c.Save)
	h.Delete("", c.Delete)
	h.Get("", c.Get)
}

func (c *feedbackController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.feedbackService.Save(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save feedback", res))
}

func (c *feedbackController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.feedbackService.Delete(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete feedback", nil))
}

func (c *feedbackController) Get(ctx *fiber.Ctx) error {
	query := ctx.Query("query")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter is required")
	}

	var videoIds []string
	if raw := ctx.Query("video_ids"); raw != "" {
		videoIds = strings.Split(raw, ",")
	}

	res, err := c.feedbackService.Get(ctx.Context(), query, videoIds)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get feedback", res))
}
