package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/botize/botize/internal/apperr"
	"github.com/botize/botize/internal/extract"
)

type websiteRequest struct {
	URL string `json:"url"`
}

// ContextWebsite ingests one web page: fetch, extract, cache. The
// extracted text is returned to the editor, which stores it on the
// widget record.
func (h *Handler) ContextWebsite(c *gin.Context) {
	var req websiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.URL == "" {
		errJSON(c, http.StatusBadRequest, "URL is required")
		return
	}

	ctx := c.Request.Context()

	content := h.Cache.GetWebsite(ctx, req.URL)
	if content == nil {
		fetched, err := h.Fetcher.Fetch(ctx, req.URL)
		if err != nil {
			h.Log.Warnw("website ingestion failed", "url", req.URL, "error", err)
			errJSON(c, apperr.HTTPStatus(err), apperr.MessageOf(err, "Failed to fetch website content"))
			return
		}
		content = fetched
		h.Cache.SetWebsite(ctx, content)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"name":          content.Name,
			"url":           content.URL,
			"content":       content.Content,
			"contentLength": len(content.Content),
		},
	})
}

// ContextPDF ingests an uploaded PDF. Type and size are checked before
// any byte of extraction work.
func (h *Handler) ContextPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errJSON(c, http.StatusBadRequest, "PDF file is required")
		return
	}

	name := fileHeader.Filename
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.Contains(contentType, "pdf") && !strings.EqualFold(filepath.Ext(name), ".pdf") {
		errJSON(c, http.StatusBadRequest, "File must be a PDF")
		return
	}
	if fileHeader.Size > extract.MaxPDFBytes {
		errJSON(c, http.StatusBadRequest, "PDF file must be less than 10MB")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Log.Errorw("pdf upload open failed", "file", name, "error", err)
		errJSON(c, http.StatusInternalServerError, "Failed to process PDF")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, extract.MaxPDFBytes+1))
	if err != nil {
		h.Log.Errorw("pdf upload read failed", "file", name, "error", err)
		errJSON(c, http.StatusInternalServerError, "Failed to process PDF")
		return
	}

	text, err := extract.PDF(data)
	if err != nil {
		h.Log.Warnw("pdf extraction failed", "file", name, "error", err)
		errJSON(c, apperr.HTTPStatus(err), apperr.MessageOf(err, "Failed to process PDF"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"name":          strings.TrimSuffix(name, filepath.Ext(name)),
			"content":       text,
			"contentLength": len(text),
		},
	})
}
