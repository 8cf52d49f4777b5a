package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
)

// maxTextBytes caps payloads well above the largest symbol's byte capacity.
const maxTextBytes = 8 << 10

const msgEmptyText = "Please enter text to encode."

type encodeForm struct {
	Text string `form:"text"`
	ECC  string `form:"ecc"`
}

// parse validates the form and returns the payload and level, or a message
// suitable for the client.
func (f encodeForm) parse(fallback encoder.Level) (string, encoder.Level, string) {
	if f.Text == "" {
		return "", 0, msgEmptyText
	}
	if len(f.Text) > maxTextBytes {
		return "", 0, "text is too long"
	}
	if f.ECC == "" {
		return f.Text, fallback, ""
	}
	level, err := encoder.ParseLevel(f.ECC)
	if err != nil {
		return "", 0, err.Error()
	}
	return f.Text, level, ""
}

// Encode encodes the submitted text into the caller's session. A failed
// encode keeps the previous image and answers 422.
func (h *Handler) Encode(c *gin.Context) {
	s := h.session(c)
	var f encodeForm
	if err := c.ShouldBind(&f); err != nil {
		h.respond(c, http.StatusBadRequest, s, err.Error())
		return
	}
	text, level, msg := f.parse(h.cfg.Level())
	if msg != "" {
		h.respond(c, http.StatusBadRequest, s, msg)
		return
	}

	if err := s.Encode(h.enc, text, level); err != nil {
		var encErr *render.EncodeError
		if errors.As(err, &encErr) {
			h.log.WithError(encErr.Err).WithField("bytes", len(text)).Info("encode rejected")
			h.respond(c, http.StatusUnprocessableEntity, s, err.Error())
			return
		}
		h.log.WithError(err).Error("encode failed")
		h.respond(c, http.StatusInternalServerError, s, "internal error")
		return
	}
	h.respond(c, http.StatusOK, s, "")
}

// Image serves the caller's final composition as PNG. With download=1 the
// browser is told to save it as qr-code.png.
func (h *Handler) Image(c *gin.Context) {
	snap := h.session(c).Snapshot()
	if snap.State != render.Rendered {
		c.JSON(http.StatusConflict, gin.H{"error": "no QR code has been generated yet"})
		return
	}
	data, err := render.Export(snap.Final)
	if err != nil {
		h.log.WithError(err).Error("export png")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export image"})
		return
	}

	c.Header("Cache-Control", "no-store")
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="qr-code.png"`)
	}
	c.Data(http.StatusOK, "image/png", data)
}

// QRCodeHandler renders text straight to a PNG without touching any
// session. It never draws a logo.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	f := encodeForm{Text: c.Query("text"), ECC: c.Query("ecc")}
	text, level, msg := f.parse(h.cfg.Level())
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	req := encoder.DefaultRequest([]byte(text))
	req.Level = level
	g, err := h.enc.Encode(req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Failed to generate QR code: %v", err)})
		return
	}

	data, err := render.Export(render.Rasterize(g, h.cfg.Render.Scale, h.cfg.Render.Border))
	if err != nil {
		h.log.WithError(err).Error("export png")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export image"})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", data)
}
