package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/botize/botize/internal/widget"
)

func newWidgetTestRouter(t *testing.T) (*gin.Engine, *widget.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "widgets.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&widget.Widget{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	svc := widget.NewService(widget.NewRepo(db))
	h := NewHandler(zap.NewNop().Sugar(), nil, svc, nil, nil)

	r := gin.New()
	r.POST("/widgets", h.CreateWidget)
	r.GET("/widgets/:id", h.GetWidget)
	r.GET("/widgets/:id/embed", h.WidgetEmbed)
	r.DELETE("/widgets/:id", h.DeleteWidget)
	return r, svc
}

func TestCreateAndGetWidget(t *testing.T) {
	r, _ := newWidgetTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"Support Bot"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data widget.Widget `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.ID == "" || created.Data.Name != "Support Bot" {
		t.Fatalf("unexpected widget: %+v", created.Data)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/"+created.Data.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetWidget_NotFound(t *testing.T) {
	r, _ := newWidgetTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestWidgetEmbed_CarriesChatConfig(t *testing.T) {
	r, svc := newWidgetTestRouter(t)

	created, err := svc.Create(context.Background(), "Embed Bot")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	edited := *created
	edited.AI.SystemPrompt = "Be concise."
	edited.AI.BusinessContext = "We sell shoes."
	if _, err := svc.Update(context.Background(), created.ID, edited); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.AddContextSource(context.Background(), created.ID, widget.ContextSource{
		Type: "pdf", Name: "Catalog", Content: "Runner X, size 36-47.",
	}); err != nil {
		t.Fatalf("add source: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/"+created.ID+"/embed", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// The embed script forwards the ai config and the context sources on
	// every /chat turn, so all of them must round-trip through the payload.
	var resp struct {
		Data struct {
			AI             widget.AIConfig        `json:"ai"`
			ContextSources []widget.ContextSource `json:"contextSources"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AI.SystemPrompt != "Be concise." || resp.Data.AI.BusinessContext != "We sell shoes." {
		t.Fatalf("ai config incomplete: %+v", resp.Data.AI)
	}
	if !resp.Data.AI.RestrictToBusinessTopics {
		t.Fatalf("restriction flag lost: %+v", resp.Data.AI)
	}
	if len(resp.Data.ContextSources) != 1 || resp.Data.ContextSources[0].Content != "Runner X, size 36-47." {
		t.Fatalf("context sources incomplete: %+v", resp.Data.ContextSources)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"behavior"`) || !strings.Contains(body, `"style"`) {
		t.Fatalf("embed payload incomplete: %s", body)
	}
}

func TestWidgetEmbed_InactiveHidden(t *testing.T) {
	r, svc := newWidgetTestRouter(t)

	created, err := svc.Create(context.Background(), "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated := *created
	updated.IsActive = false
	if _, err := svc.Update(context.Background(), created.ID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/"+created.ID+"/embed", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("inactive widget must not embed, got %d", w.Code)
	}
}

func TestDeleteWidget(t *testing.T) {
	r, svc := newWidgetTestRouter(t)

	created, err := svc.Create(context.Background(), "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/widgets/"+created.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/widgets/"+created.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete must 404, got %d", w.Code)
	}
}
