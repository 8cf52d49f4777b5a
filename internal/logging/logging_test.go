package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	if got := NewWithWriter(&bytes.Buffer{}, "debug", "text").GetLevel(); got != logrus.DebugLevel {
		t.Fatalf("level = %v", got)
	}
	if got := NewWithWriter(&bytes.Buffer{}, "bogus", "text").GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("unknown level should fall back to info, got %v", got)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json")
	log.WithField("component", "test").Info("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if line["msg"] != "hello" || line["component"] != "test" {
		t.Fatalf("line = %v", line)
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "text")

	r := gin.New()
	r.Use(Gin(log))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	if !strings.Contains(out, "path=/ok") || !strings.Contains(out, "status=200") {
		t.Fatalf("missing /ok line: %s", out)
	}
	if !strings.Contains(out, "level=warning") || !strings.Contains(out, "status=500") {
		t.Fatalf("server error not logged at warn: %s", out)
	}
}
