package app

import (
	"strconv"

	"community_chat_service/pkg/logger"
	"community_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CommunityHandler REST surface of the community service
type CommunityHandler struct {
	Usecase CommunityUseCase
}

// NewCommunityHandler create CommunityHandler
func NewCommunityHandler(uc CommunityUseCase) *CommunityHandler {
	return &CommunityHandler{Usecase: uc}
}

// CreateCommunityReq create community request body
type CreateCommunityReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// SubmitScoreReq leaderboard submission body
type SubmitScoreReq struct {
	Game  string `json:"game"`
	Score int64  `json:"score"`
}

// CreateCommunity handles POST /communities
// @Summary Create a community at a location
// @Tags community
// @Accept json
// @Produce json
// @Param body body CreateCommunityReq true "community"
// @Success 200 {object} map[string]interface{}
// @Router /communities [post]
func (h *CommunityHandler) CreateCommunity(c *fiber.Ctx) error {
	var req CreateCommunityReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	community, err := h.Usecase.CreateCommunity(req.Name, req.Description, req.Lat, req.Lng)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "community": community})
}

// Nearby handles GET /communities/nearby?lat=&lng=&radius=
// @Summary List communities within radius meters of a point
// @Tags community
// @Produce json
// @Param lat query number true "latitude"
// @Param lng query number true "longitude"
// @Param radius query number true "radius in meters"
// @Success 200 {object} map[string]interface{}
// @Router /communities/nearby [get]
func (h *CommunityHandler) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	radius, errRadius := strconv.ParseFloat(c.Query("radius"), 64)
	if errLat != nil || errLng != nil || errRadius != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat, lng and radius are required numbers"})
	}

	communities, err := h.Usecase.NearbyCommunities(lat, lng, radius)
	if err != nil {
		if err == ErrInvalidRadius {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		logger.Log.Error("nearby communities err", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}

	return c.JSON(fiber.Map{"success": true, "communities": communities})
}

// SubmitScore handles POST /leaderboard/scores
// @Summary Submit a game score, the member's best is kept
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param body body SubmitScoreReq true "score"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard/scores [post]
func (h *CommunityHandler) SubmitScore(c *fiber.Ctx) error {
	memberID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok || memberID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req SubmitScoreReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.Usecase.SubmitScore(req.Game, memberID, req.Score); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Leaderboard handles GET /leaderboard/:game?limit=
// @Summary Top scores for a game, best first
// @Tags leaderboard
// @Produce json
// @Param game path string true "game id"
// @Param limit query int false "max entries"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard/{game} [get]
func (h *CommunityHandler) Leaderboard(c *fiber.Ctx) error {
	game := c.Params("game")
	limit := c.QueryInt("limit", 0)

	scores, err := h.Usecase.Leaderboard(game, limit)
	if err != nil {
		logger.Log.Error("leaderboard err", zap.String("game", game), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}

	return c.JSON(fiber.Map{"success": true, "scores": scores})
}
