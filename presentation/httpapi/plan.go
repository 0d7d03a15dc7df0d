package httpapi

import (
	"net/http"
	"strconv"

	"robotdriver/application/inspect"
	"robotdriver/application/plan"
	"robotdriver/domain/entities"
	"robotdriver/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PlanHandler serves the page description and plan execution tools. Every
// request gets its own browser session.
type PlanHandler struct {
	launcher interfaces.Launcher
	executor *plan.Executor
	logger   logrus.FieldLogger
}

// NewPlanHandler - creates new plan handler
func NewPlanHandler(launcher interfaces.Launcher, executor *plan.Executor, logger logrus.FieldLogger) *PlanHandler {
	return &PlanHandler{
		launcher: launcher,
		executor: executor,
		logger:   logger,
	}
}

// NewPlanServer - builds the plan execution service
func NewPlanServer(opts Options, h *PlanHandler) *gin.Engine {
	engine := newEngine(opts)
	mcp := engine.Group("/mcp")
	{
		mcp.GET("/describe_page", h.handleDescribe)
		mcp.POST("/execute_plan", h.handleExecute)
	}
	return engine
}

func (h *PlanHandler) handleDescribe(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		detail(c, http.StatusUnprocessableEntity, "query parameter url is required")
		return
	}
	depth := inspect.DefaultDepth
	if raw, ok := c.GetQuery("depth"); ok {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			detail(c, http.StatusUnprocessableEntity, "query parameter depth must be a non-negative integer")
			return
		}
		depth = d
	}

	log := requestLogger(c, h.logger).WithField("url", url)
	session, err := h.launcher.Launch(c.Request.Context(), true)
	if err != nil {
		log.WithError(err).Error("failed to open browser")
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer session.Close()

	desc, err := inspect.Describe(c.Request.Context(), session.Page(), url, depth)
	if err != nil {
		log.WithError(err).Error("describe page failed")
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, desc)
}

func (h *PlanHandler) handleExecute(c *gin.Context) {
	var p entities.Plan
	if err := c.ShouldBindJSON(&p); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log := requestLogger(c, h.logger).WithField("steps", len(p.Steps))
	session, err := h.launcher.Launch(c.Request.Context(), p.IsHeadless())
	if err != nil {
		log.WithError(err).Error("failed to open browser")
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer session.Close()

	res := h.executor.Execute(c.Request.Context(), session.Page(), p)
	log.WithField("ok", res.OK).Info("plan finished")
	c.JSON(http.StatusOK, res)
}
