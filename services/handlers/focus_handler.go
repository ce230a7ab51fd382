package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lockedin-labs/lockin_api/dto"
	"github.com/lockedin-labs/lockin_api/shared"
)

type FocusHandler struct {
	focusSvc FocusServiceInterface
}

func NewFocusHandler(focusSvc FocusServiceInterface) *FocusHandler {
	return &FocusHandler{
		focusSvc: focusSvc,
	}
}

// @Summary Start focus session
// @Description Open a focus session for the authenticated participant. Fails with 409 if one is already running.
// @Tags focus
// @Accept json
// @Produce json
// @Param startFocusRequest body dto.StartFocusRequest true "Challenge to focus on"
// @Success 201 {object} shared.Response{data=dto.FocusSessionResponse}
// @Security ApiKeyAuth
// @Router /api/v1/focus/start [post]
func (h *FocusHandler) StartFocus(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartFocusRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.focusSvc.StartSession(userID, req.ChallengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Focus session started", resp)
}

// @Summary Stop focus session
// @Description Close a running focus session and credit its duration. Closing an already-closed session returns 409 without double counting.
// @Tags focus
// @Accept json
// @Produce json
// @Param stopFocusRequest body dto.StopFocusRequest true "Session to close, with optional client-measured elapsed seconds"
// @Success 200 {object} shared.Response{data=dto.StopFocusResponse}
// @Security ApiKeyAuth
// @Router /api/v1/focus/stop [post]
func (h *FocusHandler) StopFocus(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StopFocusRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.focusSvc.StopSession(userID, req.SessionID, req.ElapsedOverride)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Focus session stopped", resp)
}

// @Summary Reset focus session
// @Description Close any running session for the challenge, crediting its elapsed time, then open a fresh one.
// @Tags focus
// @Accept json
// @Produce json
// @Param resetFocusRequest body dto.ResetFocusRequest true "Challenge whose timer to reset"
// @Success 200 {object} shared.Response{data=dto.ResetFocusResponse}
// @Security ApiKeyAuth
// @Router /api/v1/focus/reset [post]
func (h *FocusHandler) ResetFocus(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ResetFocusRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.focusSvc.ResetSession(userID, req.ChallengeID, req.ElapsedOverride)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Focus session reset", resp)
}

// @Summary Get today's focused time
// @Description Total focused seconds since local midnight for a challenge, including the running session.
// @Tags focus
// @Accept json
// @Produce json
// @Param challenge_id query string true "Challenge ID"
// @Param tz query string false "IANA timezone for the day boundary (default UTC)"
// @Success 200 {object} shared.Response{data=dto.FocusTodayResponse}
// @Security ApiKeyAuth
// @Router /api/v1/focus/today [get]
func (h *FocusHandler) FocusedToday(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	challengeID := c.Query("challenge_id")
	if challengeID == "" {
		return shared.NewBadRequestError(nil, "challenge_id is required")
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid tz parameter")
		}
		loc = parsed
	}

	resp, err := h.focusSvc.FocusedToday(userID, challengeID, time.Now(), loc)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
