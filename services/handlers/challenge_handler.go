package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/lockedin-labs/lockin_api/dto"
	"github.com/lockedin-labs/lockin_api/shared"
)

type ChallengeHandler struct {
	challengeSvc ChallengeServiceInterface
}

func NewChallengeHandler(challengeSvc ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{
		challengeSvc: challengeSvc,
	}
}

// @Summary Create challenge
// @Description Create a focus challenge. The creator is joined automatically and receives an invite code to share.
// @Tags challenges
// @Accept json
// @Produce json
// @Param createChallengeRequest body dto.CreateChallengeRequest true "Challenge details"
// @Success 201 {object} shared.Response{data=dto.ChallengeResponse}
// @Security ApiKeyAuth
// @Router /api/v1/challenges [post]
func (h *ChallengeHandler) CreateChallenge(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.challengeSvc.CreateChallenge(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Challenge created", resp)
}

// @Summary Get challenge
// @Description Get a challenge with its participants
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} shared.Response{data=dto.ChallengeDetailResponse}
// @Security ApiKeyAuth
// @Router /api/v1/challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *fiber.Ctx) error {
	challengeID := c.Params("id")

	resp, err := h.challengeSvc.GetChallenge(challengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Join challenge by invite code
// @Description Join a challenge using its invite code. Joining twice returns the existing participation.
// @Tags challenges
// @Accept json
// @Produce json
// @Param joinChallengeRequest body dto.JoinChallengeRequest true "Invite code"
// @Success 200 {object} shared.Response{data=dto.ParticipantResponse}
// @Security ApiKeyAuth
// @Router /api/v1/challenges/join [post]
func (h *ChallengeHandler) JoinChallenge(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.JoinChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.challengeSvc.JoinByInvite(userID, req.InviteCode)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Joined challenge", resp)
}
