package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/server/metrics"
	"github.com/dmitrijs2005/sociopedia/internal/server/models"
	"github.com/dmitrijs2005/sociopedia/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is what the handlers need from the business layer.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Pinger reports store reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	users   UserService
	health  Pinger
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewHandler(us UserService, p Pinger, l logging.Logger, m *metrics.Metrics) *Handler {
	return &Handler{users: us, health: p, logger: l.With("module", "handlers"), metrics: m}
}

func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if !h.bind(c, &in) {
		h.metrics.ObserveAuth(metrics.OpRegister, metrics.OutcomeInvalid)
		return
	}

	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		h.metrics.ObserveAuth(metrics.OpRegister, outcomeOf(err))
		h.writeError(c, err)
		return
	}

	h.metrics.ObserveAuth(metrics.OpRegister, metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, newUserResponse(u))
}

func (h *Handler) Login(c *gin.Context) {
	var in services.LoginInput
	if !h.bind(c, &in) {
		h.metrics.ObserveAuth(metrics.OpLogin, metrics.OutcomeInvalid)
		return
	}

	res, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		h.metrics.ObserveAuth(metrics.OpLogin, outcomeOf(err))
		h.writeError(c, err)
		return
	}

	h.metrics.ObserveAuth(metrics.OpLogin, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, LoginResponse{Token: res.Token, User: newUserResponse(res.User)})
}

// Me returns the user the access token was issued to.
func (h *Handler) Me(c *gin.Context) {
	id, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), id.Subject)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			h.logger.Error(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := decodeJSON(c, dst); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusBadRequest, CredentialsErrorResponse{Msg: "Invalid credentials"})
	case errors.Is(err, common.ErrDuplicateIdentifier):
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, common.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err, "request_id", c.GetString(requestIDKey))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, common.ErrInvalidCredentials):
		return metrics.OutcomeRejected
	case errors.Is(err, common.ErrDuplicateIdentifier):
		return metrics.OutcomeDuplicate
	}
	return metrics.OutcomeError
}
