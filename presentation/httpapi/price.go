package httpapi

import (
	"context"
	"net/http"

	"robotdriver/domain/entities"
	"robotdriver/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// missingCredentialsDetail is the quick endpoint reply when no account is configured
const missingCredentialsDetail = "Set AE_EMAIL and AE_PASSWORD env vars for quick endpoint."

// PriceRunner runs one price lookup
type PriceRunner interface {
	Run(ctx context.Context, req entities.PriceRequest) (*entities.PriceResult, error)
}

// PriceHandler serves /price and /price/quick
type PriceHandler struct {
	runner      PriceRunner
	credentials func() config.Credentials
	logger      logrus.FieldLogger
}

// NewPriceHandler - creates the price handler; credentials is read on every
// quick request
func NewPriceHandler(runner PriceRunner, credentials func() config.Credentials, logger logrus.FieldLogger) *PriceHandler {
	return &PriceHandler{
		runner:      runner,
		credentials: credentials,
		logger:      logger,
	}
}

// NewPriceServer - builds the price lookup service
func NewPriceServer(opts Options, h *PriceHandler) *gin.Engine {
	engine := newEngine(opts)
	engine.POST("/price", h.handlePrice)
	engine.GET("/price/quick", h.handleQuick)
	return engine
}

func (h *PriceHandler) handlePrice(c *gin.Context) {
	var req entities.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.run(c, req)
}

func (h *PriceHandler) handleQuick(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		detail(c, http.StatusUnprocessableEntity, "query parameter product is required")
		return
	}
	creds := h.credentials()
	if err := creds.Validate(); err != nil {
		requestLogger(c, h.logger).WithError(err).Warn("quick lookup without credentials")
		detail(c, http.StatusBadRequest, missingCredentialsDetail)
		return
	}
	h.run(c, entities.PriceRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Product:  product,
	})
}

func (h *PriceHandler) run(c *gin.Context, req entities.PriceRequest) {
	res, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		requestLogger(c, h.logger).WithError(err).Error("price lookup failed")
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}
