package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"greenjobs/internal/delivery/http/dto"
	"greenjobs/internal/delivery/http/middleware"
	"greenjobs/internal/domain/advert"
	"greenjobs/internal/embed"
	"greenjobs/internal/measure/industries"
	"greenjobs/internal/ner"
	"greenjobs/internal/pipeline"
	"greenjobs/internal/pkg/response"
)

// MeasureHandler serves on-demand measurement of single adverts. The
// batch CLI is the primary interface; these routes exist for spot checks
// and integrations that measure as adverts arrive.
type MeasureHandler struct {
	runner      *pipeline.Runner
	skills      pipeline.SkillMeasurer
	occupations pipeline.OccupationMeasurer
	industries  pipeline.IndustryMeasurer
}

func NewMeasureHandler(
	runner *pipeline.Runner,
	skills pipeline.SkillMeasurer,
	occupations pipeline.OccupationMeasurer,
	industries pipeline.IndustryMeasurer,
) *MeasureHandler {
	return &MeasureHandler{
		runner:      runner,
		skills:      skills,
		occupations: occupations,
		industries:  industries,
	}
}

func (h *MeasureHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/measure")
	grp.Post("/", h.MeasureAll)
	grp.Post("/skills", h.MeasureSkills)
	grp.Post("/occupation", h.MeasureOccupation)
	grp.Post("/industry", h.MeasureIndustry)
}

func (h *MeasureHandler) MeasureAll(c fiber.Ctx) error {
	ad, appErr := parseAdvert(c)
	if appErr != nil {
		return appErr
	}

	results, _, err := h.runner.Run(c.Context(), []advert.Advert{ad})
	if err != nil {
		return mapMeasureError(err)
	}
	if len(results) != 1 {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, nil)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMeasureResponse(results[0]))
}

func (h *MeasureHandler) MeasureSkills(c fiber.Ctx) error {
	ad, appErr := parseAdvert(c)
	if appErr != nil {
		return appErr
	}

	out, _, err := h.skills.MeasureBatch(c.Context(), []advert.Advert{ad})
	if err != nil {
		return mapMeasureError(err)
	}

	res := dto.MeasureResponse{AdvertID: ad.ID}
	if len(out) == 1 {
		sk := dto.NewSkillMeasuresResponse(out[0])
		res.Skills = &sk
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MeasureHandler) MeasureOccupation(c fiber.Ctx) error {
	ad, appErr := parseAdvert(c)
	if appErr != nil {
		return appErr
	}

	out, _, err := h.occupations.MeasureBatch(c.Context(), []advert.Advert{ad})
	if err != nil {
		return mapMeasureError(err)
	}

	res := dto.MeasureResponse{AdvertID: ad.ID}
	if len(out) == 1 && out[0].Matched() {
		occ := dto.NewOccupationResponse(out[0])
		res.Occupation = &occ
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MeasureHandler) MeasureIndustry(c fiber.Ctx) error {
	ad, appErr := parseAdvert(c)
	if appErr != nil {
		return appErr
	}

	out, _, err := h.industries.MeasureBatch(c.Context(), []advert.Advert{ad})
	if err != nil {
		return mapMeasureError(err)
	}

	res := dto.MeasureResponse{AdvertID: ad.ID}
	if len(out) == 1 && out[0].Matched() {
		ind := dto.NewIndustryResponse(out[0])
		res.Industry = &ind
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func parseAdvert(c fiber.Ctx) (advert.Advert, *middleware.AppError) {
	var req dto.MeasureRequest
	if err := c.Bind().Body(&req); err != nil {
		return advert.Advert{}, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	if msg := req.Validate(); msg != "" {
		return advert.Advert{}, middleware.NewAppError(fiber.StatusUnprocessableEntity, msg, nil, nil)
	}
	return req.ToAdvert(), nil
}

func mapMeasureError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return middleware.NewAppError(fiber.StatusRequestTimeout, "request cancelled", nil, err)
	case errors.Is(err, embed.ErrEmbedderUnavailable),
		errors.Is(err, ner.ErrRecognizerUnavailable),
		errors.Is(err, industries.ErrClassifierUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "model service unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
