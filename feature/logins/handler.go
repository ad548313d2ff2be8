package logins

import (
	"errors"
	"strings"

	"pass-fxa/core/logger"
	"pass-fxa/core/loginsync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const clientKey = "logins_client"

// Handler handles HTTP requests for logins.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the session and login routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sessions", h.HandleCreateSession)

	group := app.Group("/logins", h.requireSession)
	group.Get("/", h.HandleFetchLogins)
	group.Put("/", h.HandlePutLogins)
	group.Post("/delete", h.HandleDeleteLogins)
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(loginsync.ErrorResponse{Error: msg})
}

// requireSession resolves the bearer token into the session's login client.
func (h *Handler) requireSession(c *fiber.Ctx) error {
	token, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !found || token == "" {
		return errorJSON(c, fiber.StatusUnauthorized, "missing bearer token")
	}
	client, ok := h.service.Client(token)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "invalid or expired session")
	}
	c.Locals(clientKey, client)
	return c.Next()
}

func sessionClient(c *fiber.Ctx) loginsync.Client {
	return c.Locals(clientKey).(loginsync.Client)
}

// HandleCreateSession opens a session.
// @Summary Create Session
// @Description Authenticate an account and return a bearer token for the login routes.
// @Tags logins
// @Accept json
// @Produce json
// @Param body body loginsync.SessionRequest true "Account credentials"
// @Success 200 {object} loginsync.SessionResponse "Session token"
// @Failure 400 {object} loginsync.ErrorResponse "Bad Request"
// @Failure 401 {object} loginsync.ErrorResponse "Unauthorized"
// @Router /api/v1/sessions [post]
func (h *Handler) HandleCreateSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req loginsync.SessionRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return errorJSON(c, fiber.StatusBadRequest, "username and password are required")
	}

	token, err := h.service.CreateSession(c.UserContext(), req.Username, req.Password)
	if errors.Is(err, loginsync.ErrAuthFailed) {
		l.Warn("Rejected session", zap.String("ip", c.IP()))
		return errorJSON(c, fiber.StatusUnauthorized, loginsync.ErrAuthFailed.Error())
	}
	if err != nil {
		l.Error("Session creation failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(loginsync.SessionResponse{Token: token})
}

// HandleFetchLogins lists the session account's logins.
// @Summary List Logins
// @Description List the account's logins in snapshot order.
// @Tags logins
// @Produce json
// @Security BearerAuth
// @Success 200 {array} reconcile.RemoteLogin "Logins"
// @Failure 401 {object} loginsync.ErrorResponse "Unauthorized"
// @Failure 500 {object} loginsync.ErrorResponse "Internal Server Error"
// @Router /api/v1/logins [get]
func (h *Handler) HandleFetchLogins(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	logins, err := sessionClient(c).FetchLogins(c.UserContext())
	if err != nil {
		l.Error("Fetching logins failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(logins)
}

// HandlePutLogins applies create and update jobs as one batch.
// @Summary Put Logins
// @Description Apply a batch of create and update jobs. The batch is applied entirely or not at all.
// @Tags logins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body loginsync.PutRequest true "Jobs"
// @Success 200 {object} loginsync.PutResponse "Applied jobs"
// @Failure 400 {object} loginsync.ErrorResponse "Bad Request"
// @Failure 401 {object} loginsync.ErrorResponse "Unauthorized"
// @Failure 404 {object} loginsync.ErrorResponse "Unknown login"
// @Failure 500 {object} loginsync.ErrorResponse "Internal Server Error"
// @Router /api/v1/logins [put]
func (h *Handler) HandlePutLogins(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req loginsync.PutRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	for _, job := range req.Jobs {
		if err := loginsync.ValidateJob(job); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
	}

	err := sessionClient(c).PutLogins(c.UserContext(), req.Jobs)
	if errors.Is(err, loginsync.ErrUnknownLogin) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		l.Error("Putting logins failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	l.Info("Applied login batch", zap.Int("jobs", len(req.Jobs)))
	return c.JSON(loginsync.PutResponse{Applied: len(req.Jobs)})
}

// HandleDeleteLogins deletes logins by id as one batch.
// @Summary Delete Logins
// @Description Delete a batch of logins by id. Ids the account does not own are ignored.
// @Tags logins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body loginsync.DeleteRequest true "Login ids"
// @Success 200 {object} loginsync.DeleteResponse "Deleted ids"
// @Failure 400 {object} loginsync.ErrorResponse "Bad Request"
// @Failure 401 {object} loginsync.ErrorResponse "Unauthorized"
// @Failure 500 {object} loginsync.ErrorResponse "Internal Server Error"
// @Router /api/v1/logins/delete [post]
func (h *Handler) HandleDeleteLogins(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req loginsync.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}

	if err := sessionClient(c).DeleteLogins(c.UserContext(), req.IDs); err != nil {
		l.Error("Deleting logins failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	l.Info("Deleted login batch", zap.Int("ids", len(req.IDs)))
	return c.JSON(loginsync.DeleteResponse{Deleted: len(req.IDs)})
}
