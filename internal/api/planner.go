package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contentdesk/affkit/internal/planner"
)

func plannerStatus(err error) int {
	switch {
	case errors.Is(err, planner.ErrClusterNotFound), errors.Is(err, planner.ErrKeywordNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrNoClusters), errors.Is(err, planner.ErrInvalidCSV),
		errors.Is(err, planner.ErrInvalidXLSX):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ListClusters lists clusters, filtered by ?filter=all|pending|completed.
func (h *Handlers) ListClusters(c *gin.Context) {
	filter, err := planner.ParseFilter(c.Query("filter"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clusters": h.deps.Planner.Filter(filter),
		"stats":    h.deps.Planner.Stats(),
	})
}

// PlanStats returns keyword totals.
func (h *Handlers) PlanStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Planner.Stats())
}

// GetCluster returns one cluster by ID or label.
func (h *Handlers) GetCluster(c *gin.Context) {
	cl, err := h.deps.Planner.Find(c.Param("ref"))
	if err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

type addRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddClusters adds clusters from "Cluster Label: ... Keywords: ..." text.
func (h *Handlers) AddClusters(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	n, err := h.deps.Planner.AddFromText(req.Text)
	if err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": n})
}

// xlsxContentType is the media type of an Excel workbook upload.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportClusters imports a CSV request body, or an Excel workbook when sent
// with the xlsx content type.
func (h *Handlers) ImportClusters(c *gin.Context) {
	importer := h.deps.Planner.ImportCSV
	if c.ContentType() == xlsxContentType {
		importer = h.deps.Planner.ImportXLSX
	}
	n, err := importer(c.Request.Body)
	if err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": n})
}

type updateRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// UpdateCluster marks a cluster done or pending.
func (h *Handlers) UpdateCluster(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.respondCluster(c, h.deps.Planner.SetDone(c.Param("ref"), *req.Done))
}

type checkRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Checked *bool  `json:"checked"`
}

// CheckKeyword checks or unchecks one keyword. checked defaults to true.
func (h *Handlers) CheckKeyword(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	checked := req.Checked == nil || *req.Checked
	h.respondCluster(c, h.deps.Planner.CheckKeyword(c.Param("ref"), req.Keyword, checked))
}

type removeRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1"`
}

// RemoveKeywords removes keywords from a cluster.
func (h *Handlers) RemoveKeywords(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.respondCluster(c, h.deps.Planner.RemoveKeywords(c.Param("ref"), req.Keywords...))
}

// respondCluster replies with the updated cluster, or the mutation error.
func (h *Handlers) respondCluster(c *gin.Context, err error) {
	if err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	h.GetCluster(c)
}

// DeleteCluster deletes one cluster.
func (h *Handlers) DeleteCluster(c *gin.Context) {
	if err := h.deps.Planner.Delete(c.Param("ref")); err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearPlan deletes every cluster.
func (h *Handlers) ClearPlan(c *gin.Context) {
	if err := h.deps.Planner.Clear(); err != nil {
		fail(c, plannerStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}
