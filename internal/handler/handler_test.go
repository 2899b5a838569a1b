package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"site-diary/internal/diary"
	"site-diary/internal/handler"
	"site-diary/internal/middleware"
	"site-diary/internal/model"
	"site-diary/internal/service"
)

var testSecret = []byte("test-secret")

type testApp struct {
	r         *gin.Engine
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Construction{}, &model.Diary{}))

	uploadDir := t.TempDir()
	authH := handler.NewAuthHandler(service.NewAuthService(db), testSecret, 7)
	constructionH := handler.NewConstructionHandler(service.NewConstructionService(db))
	diaryH := handler.NewDiaryHandler(service.NewDiaryService(db), uploadDir)

	r := gin.New()
	r.POST("/api/register", authH.Register)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(testSecret))
	api.POST("/constructions", constructionH.Create)
	api.GET("/constructions", constructionH.List)
	api.GET("/constructions/:id", constructionH.Get)
	api.PUT("/constructions/:id", constructionH.Update)
	api.DELETE("/constructions/:id", constructionH.Delete)
	api.POST("/constructions/:id/diary", diaryH.Create)
	api.GET("/diaries/:id", diaryH.Get)
	api.POST("/diaries/:id/contributors", diaryH.AddContributor)
	api.PUT("/diaries/:id/date-range", diaryH.ModifyDateRange)
	api.POST("/diaries/:id/records/text", diaryH.AddTextRecord)
	api.POST("/diaries/:id/records/picture", diaryH.AddPictureRecord)
	api.GET("/diaries/:id/days/:date", diaryH.GetDay)
	api.GET("/diaries/:id/span", diaryH.GetSpan)
	api.GET("/files/:name", diaryH.DownloadFile)

	return &testApp{r: r, uploadDir: uploadDir}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/register", "", model.RegisterRequest{
		Name: name, Email: email, Password: "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Email: email, Password: "pw123"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.LoginResponse](t, w)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(diary.DateLayout)
}

// setupDiary registers an owner, creates a construction and its diary
// spanning today..today+5, and returns the owner token and the diary view.
func setupDiary(t *testing.T, a *testApp) (string, model.DiaryView) {
	t.Helper()
	token := a.registerAndLogin(t, "Owner", "owner@example.com")

	w := a.do(t, http.MethodPost, "/api/constructions", token, model.ConstructionRequest{
		Name: "office block", DateFrom: day(0), DateTo: day(30),
	})
	require.Equal(t, http.StatusOK, w.Code)
	c := decode[model.Construction](t, w)

	w = a.do(t, http.MethodPost, "/api/constructions/"+c.ID.String()+"/diary", token, model.CreateDiaryRequest{
		DateFrom: day(0), DateTo: day(5), ManagerName: "J. Mason",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return token, decode[model.DiaryView](t, w)
}

func TestAuthRequired(t *testing.T) {
	a := newTestApp(t)
	w := a.do(t, http.MethodGet, "/api/constructions", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	a := newTestApp(t)
	a.registerAndLogin(t, "Jan", "jan@example.com")
	w := a.do(t, http.MethodPost, "/api/register", "", model.RegisterRequest{
		Name: "Jana", Email: "jan@example.com", Password: "pw",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	a := newTestApp(t)
	a.registerAndLogin(t, "Jan", "jan@example.com")
	w := a.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Email: "jan@example.com", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDiaryLifecycle(t *testing.T) {
	a := newTestApp(t)
	ownerToken, view := setupDiary(t, a)
	diaryPath := "/api/diaries/" + view.ID.String()

	require.Len(t, view.Days, 6)

	// A stranger can see nothing.
	strangerToken := a.registerAndLogin(t, "Stranger", "stranger@example.com")
	w := a.do(t, http.MethodGet, diaryPath, strangerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Register a supervisor and add them as contributor.
	supToken := a.registerAndLogin(t, "Supervisor", "sup@example.com")
	w = a.do(t, http.MethodPost, diaryPath+"/contributors", ownerToken, model.AddContributorRequest{
		Email: "sup@example.com", Role: diary.RoleConstructionSupervisor,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Duplicate contributor is a conflict.
	w = a.do(t, http.MethodPost, diaryPath+"/contributors", ownerToken, model.AddContributorRequest{
		Email: "sup@example.com", Role: diary.RoleDesigner,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// The contributor reads the diary and files a record under their role.
	w = a.do(t, http.MethodGet, diaryPath, supToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, diaryPath+"/records/text", supToken, model.AddTextRecordRequest{
		Category: diary.CategoryWork, Content: "rebar inspection passed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[model.RecordResponse](t, w)
	require.Equal(t, diary.RoleConstructionSupervisor, rec.AuthorRole)
	require.Equal(t, "Supervisor", rec.AuthorName)

	// Contributors cannot resize the window or add contributors.
	w = a.do(t, http.MethodPut, diaryPath+"/date-range", supToken, model.DateRangeRequest{
		DateFrom: day(0), DateTo: day(10),
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodPost, diaryPath+"/contributors", supToken, model.AddContributorRequest{
		Email: "stranger@example.com", Role: diary.RoleSupplier,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Owner shrink over today's record is refused; growing works.
	w = a.do(t, http.MethodPut, diaryPath+"/date-range", ownerToken, model.DateRangeRequest{
		DateFrom: day(1), DateTo: day(5),
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodPut, diaryPath+"/date-range", ownerToken, model.DateRangeRequest{
		DateFrom: day(0), DateTo: day(10),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Day lookup: in-window works, out-of-window is a bad request.
	w = a.do(t, http.MethodGet, diaryPath+"/days/"+day(0), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[diary.DayPage](t, w)
	require.Len(t, page.Lists[diary.CategoryWork], 1)

	w = a.do(t, http.MethodGet, diaryPath+"/days/"+day(60), ownerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Span trims to the single day bearing a record.
	w = a.do(t, http.MethodGet, diaryPath+"/span", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	span := decode[model.SpanResponse](t, w)
	require.NotNil(t, span.FirstDay)
	require.Equal(t, day(0), *span.FirstDay)
	require.Equal(t, day(0), *span.LastDay)
}

func TestSecondDiaryIsConflict(t *testing.T) {
	a := newTestApp(t)
	token, view := setupDiary(t, a)

	w := a.do(t, http.MethodPost, "/api/constructions/"+view.ConstructionID.String()+"/diary", token, model.CreateDiaryRequest{
		DateFrom: day(0), DateTo: day(5),
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestPictureRecordUploadAndDownload(t *testing.T) {
	a := newTestApp(t)
	token, view := setupDiary(t, a)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("category", string(diary.CategoryOther)))
	fw, err := mw.CreateFormFile("file", "wall.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/diaries/"+view.ID.String()+"/records/picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	rec := decode[model.RecordResponse](t, w)
	require.NotEmpty(t, rec.PicturePath)
	require.Equal(t, ".jpg", filepath.Ext(rec.PicturePath))

	data, err := os.ReadFile(filepath.Join(a.uploadDir, rec.PicturePath))
	require.NoError(t, err)
	require.Equal(t, "not really a jpeg", string(data))

	dw := a.do(t, http.MethodGet, "/api/files/"+rec.PicturePath, token, nil)
	require.Equal(t, http.StatusOK, dw.Code)
	require.Equal(t, "not really a jpeg", dw.Body.String())

	dw = a.do(t, http.MethodGet, "/api/files/missing.jpg", token, nil)
	require.Equal(t, http.StatusNotFound, dw.Code)
}

func TestInvalidDiaryID(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "Jan", "jan@example.com")
	w := a.do(t, http.MethodGet, "/api/diaries/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownDiaryIsNotFound(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "Jan", "jan@example.com")
	w := a.do(t, http.MethodGet, fmt.Sprintf("/api/diaries/%s", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
