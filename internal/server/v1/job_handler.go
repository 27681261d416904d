package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/jobs"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
)

// JobHandler exposes the batch and training job resources.
type JobHandler struct {
	manager *jobs.Manager
}

func NewJobHandler(manager *jobs.Manager) *JobHandler {
	return &JobHandler{manager: manager}
}

// ListBatches
//
// GET /batch?page=&limit=
func (h *JobHandler) ListBatches(c *gin.Context) {
	res, ok := h.list(c, model.KindBatch)
	if !ok {
		return
	}

	views := make([]api.BatchStatus, 0, len(res.Jobs))
	for i := range res.Jobs {
		views = append(views, jobs.BatchView(&res.Jobs[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"batches":     views,
		"total":       res.Total,
		"page":        res.Page,
		"limit":       res.Limit,
		"total_pages": res.TotalPages,
	})
}

// GetBatch
//
// GET /batch/:id
func (h *JobHandler) GetBatch(c *gin.Context) {
	job, err := h.manager.Get(c.Request.Context(), model.KindBatch, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs.BatchView(job))
}

// CreateBatch
//
// POST /batch
func (h *JobHandler) CreateBatch(c *gin.Context) {
	var req api.BatchRequest
	if !bindBody(c, &req, jobs.BatchExample) {
		return
	}

	job, err := h.manager.CreateBatch(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, jobs.BatchCreated(job))
}

// CancelBatch always succeeds, whether or not the id exists.
//
// DELETE /batch/:id
func (h *JobHandler) CancelBatch(c *gin.Context) {
	h.cancel(c, model.KindBatch)
}

// ListTraining
//
// GET /training/jobs?page=&limit=
func (h *JobHandler) ListTraining(c *gin.Context) {
	res, ok := h.list(c, model.KindTraining)
	if !ok {
		return
	}

	views := make([]api.TrainingJob, 0, len(res.Jobs))
	for i := range res.Jobs {
		views = append(views, jobs.TrainingView(&res.Jobs[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":        views,
		"total":       res.Total,
		"page":        res.Page,
		"limit":       res.Limit,
		"total_pages": res.TotalPages,
	})
}

// GetTraining
//
// GET /training/jobs/:id
func (h *JobHandler) GetTraining(c *gin.Context) {
	job, err := h.manager.Get(c.Request.Context(), model.KindTraining, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs.TrainingView(job))
}

// CreateTraining
//
// POST /training/jobs
func (h *JobHandler) CreateTraining(c *gin.Context) {
	var req api.TrainingRequest
	if !bindBody(c, &req, jobs.TrainingExample) {
		return
	}

	job, err := h.manager.CreateTraining(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, jobs.TrainingCreated(job))
}

// CancelTraining
//
// DELETE /training/jobs/:id
func (h *JobHandler) CancelTraining(c *gin.Context) {
	h.cancel(c, model.KindTraining)
}

func (h *JobHandler) list(c *gin.Context, kind model.JobKind) (*jobs.ListResult, bool) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	limit, err := intQuery(c, "limit", jobs.DefaultListLimit)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	res, err := h.manager.List(c.Request.Context(), kind, page, limit)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return res, true
}

func (h *JobHandler) cancel(c *gin.Context, kind model.JobKind) {
	res, err := h.manager.Cancel(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
