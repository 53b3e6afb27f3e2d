package handlers

import (
	"BlogKeeper/internal/config"
	"BlogKeeper/internal/model"
	"BlogKeeper/internal/service"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler обрабатывает CRUD постов и отдачу картинок.
type PostHandler struct {
	PostService *service.PostService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewPostHandler создаёт хендлер постов
func NewPostHandler(postService *service.PostService, logger *zap.SugaredLogger, cfg *config.Config) *PostHandler {
	return &PostHandler{PostService: postService, Logger: logger, Config: cfg}
}

type postDTO struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
	ImageID       *string  `json:"image_id,omitempty"`
	ImageMimeType string   `json:"image_mime_type,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func postToDTO(p *model.Post) postDTO {
	dto := postDTO{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Author:        p.Author,
		Tags:          []string{},
		Published:     p.Published,
		ImageMimeType: p.ImageMimeType,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Tags != "" {
		for _, tag := range strings.Split(p.Tags, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				dto.Tags = append(dto.Tags, t)
			}
		}
	}
	// пустой ImageID наружу не отдаём, как и nil
	if p.ImageID != nil && *p.ImageID != "" {
		dto.ImageID = p.ImageID
	}
	return dto
}

// parseMultipart ограничивает тело запроса и разбирает форму.
// Лимит чуть больше лимита картинки: остальные поля формы тоже занимают место.
func (h *PostHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	maxBody := int64(h.Config.ImageMaxSizeMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "body must be multipart/form-data")
		return false
	}
	return true
}

// formFile читает файл из поля image; отсутствие файла — не ошибка.
func formFile(r *http.Request) (*service.FileUpload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	ct := header.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &service.FileUpload{Filename: header.Filename, ContentType: ct, Data: data}, nil
}

// formValue различает «поле отсутствует» и «поле пустое» — для частичных обновлений.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Create создание поста, опционально с картинкой (multipart-форма)
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	file, err := formFile(r)
	if err != nil {
		h.Logger.Warnw("Create: failed to read image", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "failed to read image file")
		return
	}

	in := service.CreateInput{
		Title:     r.FormValue("title"),
		Slug:      r.FormValue("slug"),
		Content:   r.FormValue("content"),
		Author:    r.FormValue("author"),
		Tags:      r.FormValue("tags"),
		Published: r.FormValue("published") == "true",
		File:      file,
	}

	post, err := h.PostService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.Logger, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, postToDTO(post))
}

// Update частичное обновление поста: новые поля, новая картинка
// или её снятие через remove_image=true
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.parseMultipart(w, r) {
		return
	}

	file, err := formFile(r)
	if err != nil {
		h.Logger.Warnw("Update: failed to read image", "post_id", id, "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "failed to read image file")
		return
	}

	in := service.UpdateInput{File: file}
	if v, ok := formValue(r, "title"); ok {
		in.Title = &v
	}
	if v, ok := formValue(r, "slug"); ok {
		in.Slug = &v
	}
	if v, ok := formValue(r, "content"); ok {
		in.Content = &v
	}
	if v, ok := formValue(r, "author"); ok {
		in.Author = &v
	}
	if v, ok := formValue(r, "tags"); ok {
		in.Tags = &v
	}
	if v, ok := formValue(r, "published"); ok {
		published := v == "true"
		in.Published = &published
	}
	if v, ok := formValue(r, "remove_image"); ok {
		in.RemoveImage = v == "true"
	}

	post, err := h.PostService.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, h.Logger, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, postToDTO(post))
}

// Get пост по id
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, postToDTO(post))
}

// List все посты, новые первыми
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "List", err)
		return
	}
	dtos := make([]postDTO, 0, len(posts))
	for i := range posts {
		dtos = append(dtos, postToDTO(&posts[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Delete удаление поста (и каскадно его картинки)
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.Logger, "Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "post deleted"})
}

// Image отдаёт байты картинки потоком. Блобы иммутабельны, поэтому ответ
// кешируется надолго, а ETag — это сам id блоба.
func (h *PostHandler) Image(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	info, rc, err := h.PostService.OpenImage(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, "Image", err)
		return
	}
	defer rc.Close()

	ct := info.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Length, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", info.ID)
	w.WriteHeader(http.StatusOK)

	// обрыв клиента отменяет r.Context() и рвёт чтение из хранилища
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warnw("Image: stream interrupted", "blob_id", id, "error", err)
	}
}
