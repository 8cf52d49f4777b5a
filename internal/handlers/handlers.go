package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/qrlogo/internal/config"
	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
	"github.com/cristianadrielbraun/qrlogo/web/components"
	"github.com/cristianadrielbraun/qrlogo/web/pages"
)

// CookieName holds the session id.
const CookieName = "qrlogo_session"

// Handler carries the dependencies shared by the HTTP handlers.
type Handler struct {
	log      logrus.FieldLogger
	enc      encoder.Encoder
	sessions *session.Store
	cfg      *config.Config
}

// New returns a Handler. enc is used for every encode, sessions keeps the
// per-visitor surfaces.
func New(log logrus.FieldLogger, enc encoder.Encoder, sessions *session.Store, cfg *config.Config) *Handler {
	return &Handler{
		log:      log.WithField("component", "http"),
		enc:      enc,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Register mounts the page and API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.HomePage)

	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/encode", h.Encode)
		api.POST("/logo", h.UploadLogo)
		api.DELETE("/logo", h.RemoveLogo)
		api.POST("/logo/size", h.LogoSize)
		api.GET("/image.png", h.Image)
		api.GET("/state", h.State)
		api.POST("/htmx/toast", h.GenericToast)
	}
}

// session returns the caller's session. The cookie is reissued on every
// request so its lifetime follows the server-side idle timeout.
func (h *Handler) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(CookieName)
	s, _ := h.sessions.GetOrCreate(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.ID, int(h.cfg.Session.TTL.Duration/time.Second), "/", "", false, true)
	return s
}

type stateResponse struct {
	Rendered bool   `json:"rendered"`
	Text     string `json:"text"`
	Version  int    `json:"version,omitempty"`
	Size     int    `json:"size,omitempty"`
	ECC      string `json:"ecc,omitempty"`
	Percent  int    `json:"percent"`
	HasLogo  bool   `json:"has_logo"`
}

func toState(snap session.Snapshot) stateResponse {
	st := stateResponse{
		Rendered: snap.State == render.Rendered,
		Text:     snap.Payload,
		Percent:  int(math.Round(snap.SizeFraction * 100)),
		HasLogo:  snap.HasLogo,
	}
	if st.Rendered {
		st.Version = snap.Version
		st.Size = snap.Size
		st.ECC = snap.Level.String()
	}
	return st
}

func (h *Handler) respond(c *gin.Context, status int, s *session.Session, msg string) {
	body := gin.H{"state": toState(s.Snapshot())}
	if msg != "" {
		body["error"] = msg
	}
	c.JSON(status, body)
}

// State reports the caller's session as JSON.
func (h *Handler) State(c *gin.Context) {
	h.respond(c, http.StatusOK, h.session(c), "")
}

// HomePage renders the editor for the caller's session.
func (h *Handler) HomePage(c *gin.Context) {
	snap := h.session(c).Snapshot()
	st := toState(snap)

	view := components.HomeView{
		Text:     st.Text,
		ECC:      st.ECC,
		Rendered: st.Rendered,
		Version:  st.Version,
		Size:     st.Size,
		Percent:  st.Percent,
		HasLogo:  st.HasLogo,
	}
	if view.ECC == "" {
		view.ECC = h.cfg.Level().String()
	}
	if st.Rendered {
		view.ImageURL = "/api/image.png?t=" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pages.HomePage(view).Render(c.Request.Context(), c.Writer); err != nil {
		h.log.WithError(err).Error("render home page")
	}
}
