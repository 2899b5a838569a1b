package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"site-diary/internal/diary"
	"site-diary/internal/logger"
	"site-diary/internal/middleware"
	"site-diary/internal/model"
	"site-diary/internal/service"
)

type DiaryHandler struct {
	svc       *service.DiaryService
	uploadDir string
}

func NewDiaryHandler(svc *service.DiaryService, uploadDir string) *DiaryHandler {
	return &DiaryHandler{svc: svc, uploadDir: uploadDir}
}

// POST /api/constructions/:id/diary
func (h *DiaryHandler) Create(c *gin.Context) {
	constructionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid construction id"})
		return
	}
	var req model.CreateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.CreateDiary(c.Request.Context(), constructionID, middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("diary.create.ok", "id", out.ID, "construction", constructionID, "from", out.DateFrom, "to", out.DateTo)
	c.JSON(http.StatusOK, out)
}

// POST /api/diaries/:id/contributors
func (h *DiaryHandler) AddContributor(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	var req model.AddContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.AddContributor(c.Request.Context(), diaryID, middleware.UserID(c), req.Email, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("diary.contributor.ok", "diary", diaryID, "user", out.UserID, "role", out.Role)
	c.JSON(http.StatusOK, out)
}

// PUT /api/diaries/:id/date-range
func (h *DiaryHandler) ModifyDateRange(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	var req model.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.ModifyDateRange(c.Request.Context(), diaryID, middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("diary.range.ok", "diary", diaryID, "from", out.DateFrom, "to", out.DateTo)
	c.JSON(http.StatusOK, out)
}

// POST /api/diaries/:id/records/text
func (h *DiaryHandler) AddTextRecord(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	var req model.AddTextRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.AddTextRecord(c.Request.Context(), diaryID, middleware.UserID(c), req.Category, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AddPictureRecord handles POST /api/diaries/:id/records/picture, a multipart
// form with "file" and a "category" field. The picture lands in the upload
// dir under a random name; the record stores only that opaque path.
func (h *DiaryHandler) AddPictureRecord(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	category := diary.Category(c.PostForm("category"))
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	buf := make([]byte, 8)
	rand.Read(buf)
	name := hex.EncodeToString(buf) + filepath.Ext(file.Filename)
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		fail(c, err)
		return
	}
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Error("picture save failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	out, err := h.svc.AddPictureRecord(c.Request.Context(), diaryID, middleware.UserID(c), category, name)
	if err != nil {
		os.Remove(dst)
		fail(c, err)
		return
	}
	logger.Info("diary.picture.ok", "diary", diaryID, "file", name, "size", file.Size)
	c.JSON(http.StatusOK, out)
}

// GET /api/diaries/:id
func (h *DiaryHandler) Get(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	out, err := h.svc.GetDiary(c.Request.Context(), diaryID, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/diaries/:id/days/:date
func (h *DiaryHandler) GetDay(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	out, err := h.svc.GetDayRecords(c.Request.Context(), diaryID, middleware.UserID(c), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/diaries/:id/span
func (h *DiaryHandler) GetSpan(c *gin.Context) {
	diaryID, ok := diaryID(c)
	if !ok {
		return
	}
	out, err := h.svc.GetSpan(c.Request.Context(), diaryID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/files/:name
func (h *DiaryHandler) DownloadFile(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(h.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	c.File(path)
}

func diaryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid diary id"})
		return uuid.Nil, false
	}
	return id, true
}
