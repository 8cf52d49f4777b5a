package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/cristianadrielbraun/qrlogo/internal/logo"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
)

type sizeForm struct {
	Percent *int `form:"percent" binding:"required"`
}

// UploadLogo decodes the multipart "logo" file and places it on the
// caller's surface. A file that cannot be decoded removes any previous logo.
func (h *Handler) UploadLogo(c *gin.Context) {
	s := h.session(c)
	limit := h.cfg.Upload.MaxBytes
	// Room for the multipart envelope around the file itself.
	bodyLimit := limit + 1<<20
	if c.Request.ContentLength > bodyLimit {
		h.respond(c, http.StatusRequestEntityTooLarge, s, logo.ErrTooLarge.Error())
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	fh, err := c.FormFile("logo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.respond(c, http.StatusRequestEntityTooLarge, s, logo.ErrTooLarge.Error())
			return
		}
		h.respond(c, http.StatusBadRequest, s, "logo file is required")
		return
	}
	if fh.Size > limit {
		h.respond(c, http.StatusRequestEntityTooLarge, s, logo.ErrTooLarge.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.log.WithError(err).Error("open upload")
		h.respond(c, http.StatusInternalServerError, s, "internal error")
		return
	}
	defer f.Close()

	img, err := logo.Read(f, limit)
	if err != nil {
		s.SetLogo(nil)
		status := http.StatusBadRequest
		if errors.Is(err, logo.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.log.WithError(err).WithField("file", fh.Filename).Info("logo rejected")
		h.respond(c, status, s, "Failed to load logo: "+err.Error())
		return
	}
	s.SetLogo(img)
	h.respond(c, http.StatusOK, s, "")
}

// RemoveLogo clears the caller's logo.
func (h *Handler) RemoveLogo(c *gin.Context) {
	s := h.session(c)
	s.SetLogo(nil)
	h.respond(c, http.StatusOK, s, "")
}

// LogoSize sets the logo diameter as a percentage of the image width,
// clamped to the supported range.
func (h *Handler) LogoSize(c *gin.Context) {
	s := h.session(c)
	var f sizeForm
	if err := c.ShouldBind(&f); err != nil {
		h.respond(c, http.StatusBadRequest, s, "percent must be an integer")
		return
	}
	s.SetSizeFraction(render.PercentToFraction(*f.Percent))
	h.respond(c, http.StatusOK, s, "")
}
