package app

import (
	"strings"

	"community_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MemberHandler REST surface of the member service
type MemberHandler struct {
	Usecase MemberUseCase
}

// NewMemberHandler create MemberHandler
func NewMemberHandler(uc MemberUseCase) *MemberHandler {
	return &MemberHandler{Usecase: uc}
}

// RegisterReq register request body
type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginReq login request body
type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshReq refresh request body
type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles POST /member/register
// @Summary Register a new member
// @Tags member
// @Accept json
// @Produce json
// @Param body body RegisterReq true "registration"
// @Success 200 {object} map[string]interface{}
// @Router /member/register [post]
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username, email and password are required"})
	}

	if err := h.Usecase.Register(c.Context(), req.Username, req.Email, req.Password); err != nil {
		logger.Log.Error("register err", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Login handles POST /member/login
// @Summary Login and receive an access/refresh token pair
// @Tags member
// @Accept json
// @Produce json
// @Param body body LoginReq true "credentials"
// @Success 200 {object} map[string]interface{}
// @Router /member/login [post]
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	pair, err := h.Usecase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh handles POST /member/refresh
// @Summary Rotate the access token with a refresh token
// @Tags member
// @Accept json
// @Produce json
// @Param body body RefreshReq true "refresh token"
// @Success 200 {object} map[string]interface{}
// @Router /member/refresh [post]
func (h *MemberHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	accessToken, err := h.Usecase.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"access_token": accessToken,
	})
}

// Logout handles POST /member/logout
// @Summary Logout and drop the session
// @Tags member
// @Security Bearer
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /member/logout [post]
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	tokenStr := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}

	if err := h.Usecase.Logout(c.Context(), tokenStr); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}
