package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/lockedin-labs/lockin_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary Get challenge leaderboard
// @Description Participants ranked by total focus time, most focused first. Ties rank the earlier joiner higher. Pass live=true to include running sessions.
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param live query bool false "Include running sessions in totals (default false)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Security ApiKeyAuth
// @Router /api/v1/challenges/{id}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	challengeID := c.Params("id")
	live := c.QueryBool("live")

	resp, err := h.leaderboardSvc.Leaderboard(challengeID, live)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
