package handlers

import (
	"fmt"
	"net/http"

	"github.com/csk7msd/student-college-allocation-system-dashboard/allocation"
	"github.com/gin-gonic/gin"
)

type Allocation struct {
	table *allocation.Table
}

func NewAllocation(table *allocation.Table) *Allocation {
	return &Allocation{table: table}
}

func (h *Allocation) Lookup(c *gin.Context) {
	res, err := h.table.Lookup(c.Query("unique_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"found":      true,
		"message":    fmt.Sprintf("You have been allocated to %s", res.CollegeID),
		"allocation": res,
		"download":   fmt.Sprintf("/allocations/%d/download", res.UniqueID),
	})
}

func (h *Allocation) Download(c *gin.Context) {
	filename, data, err := h.table.CSV(c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
