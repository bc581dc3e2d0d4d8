package controller

import (
	"ai-videosearch-be/internal/pkg/serverutils"
	"ai-videosearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVideoController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	RequestBackfill(ctx *fiber.Ctx) error
}

type videoController struct {
	videoService service.IVideoService
}

func NewVideoController(videoService service.IVideoService) IVideoController {
	return &videoController{
		videoService: videoService,
	}
}

func (c *videoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/video/v1")
	h.Get("", c.List)
	h.Post("backfill-embeddings", c.RequestBackfill)
	h.Get(":id", c.Show)
}

func (c *videoController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.videoService.List(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list videos", res))
}

func (c *videoController) Show(ctx *fiber.Ctx) error {
	res, err := c.videoService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show video", res))
}

func (c *videoController) RequestBackfill(ctx *fiber.Ctx) error {
	res, err := c.videoService.RequestBackfill(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success request embedding backfill", res))
}
