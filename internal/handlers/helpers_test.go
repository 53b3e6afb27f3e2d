package handlers

import (
	"BlogKeeper/internal/blobstore"
	"BlogKeeper/internal/config"
	"BlogKeeper/internal/email"
	"BlogKeeper/internal/middleware"
	"BlogKeeper/internal/repo"
	"BlogKeeper/internal/service"
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// testApp — полный HTTP-стек поверх sqlite в памяти: реальные репозитории,
// сервисы и bucket, письма уходят в лог
type testApp struct {
	router http.Handler
	cfg    *config.Config
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := repo.InitDB(dsn)
	require.NoError(t, err)

	sugar := zap.NewNop().Sugar()
	cfg := &config.Config{
		AuthSecret:     "test-secret",
		ImageMaxSizeMB: 1,
		ServerURL:      "http://localhost:8081",
		PublicURL:      "http://localhost:8081",
	}

	bucket := blobstore.NewGormBucket(db, 1024)
	userService := service.NewUserService(repo.NewUserRepository(db), email.NewLogSender(sugar), sugar, cfg.PublicURL)
	postService := service.NewPostService(repo.NewPostRepository(db), bucket, sugar, cfg.ImageMaxSizeMB)

	h := NewHandler(userService, postService, sugar, cfg)
	return &testApp{router: h.Router, cfg: cfg, db: db}
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// addAuthCookie выписывает валидный auth_token и цепляет его к запросу
func (a *testApp) addAuthCookie(t *testing.T, req *http.Request, userID int64) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, middleware.SetLoginCookie(rec, userID, a.cfg.AuthSecret))
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

type fileUpload struct {
	field, name, contentType string
	data                     []byte
}

// makeMultipart собирает multipart/form-data тело из полей и опционального файла
func makeMultipart(t *testing.T, fields map[string]string, file *fileUpload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}
