package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrlogo/web/components"
)

type toastForm struct {
	Title       string `form:"title" binding:"max=200"`
	Description string `form:"description" binding:"max=1000"`
	Variant     string `form:"variant"`
	Dismissible string `form:"dismissible"`
}

// GenericToast returns a toast rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
	var f toastForm
	if err := c.ShouldBind(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	err := components.Toast(components.ToastProps{
		Title:       f.Title,
		Description: f.Description,
		Variant:     components.ParseVariant(f.Variant),
		Duration:    2000,
		Dismissible: f.Dismissible == "on",
	}).Render(c.Request.Context(), c.Writer)
	if err != nil {
		h.log.WithError(err).Error("render toast")
	}
}
