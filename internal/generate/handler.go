package generate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/example/codraw/internal/logging"
)

const (
	RoutePath         = "/api/generate"
	DefaultArchiveURL = "/public"
	maxRequestBody    = 32 << 20
)

// Handler serves a Service over the /api/generate JSON route.
type Handler struct {
	Service Service
	// ArchiveDir receives generated images when a request sets saveToFile.
	// Empty disables archiving.
	ArchiveDir string
	// ArchiveURL is the path prefix archived files are served under.
	ArchiveURL string
	Now        func() time.Time
}

// Router returns a chi router with the generate route and, when archiving
// is enabled, a file server for archived images.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
	r.Post(RoutePath, h.ServeGenerate)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.ArchiveDir != "" {
		prefix := h.archiveURL()
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(h.ArchiveDir)))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}
	return r
}

// ServeGenerate handles one POST.
func (h *Handler) ServeGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}
	id := middleware.GetReqID(r.Context())
	if id == "" {
		id = uuid.NewString()
	}
	log := logging.Logger().With("request_id", id)

	var body wireRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Prompt is required"})
		return
	}
	req := Request{Prompt: body.Prompt}
	if body.DrawingData != "" {
		img, err := base64.StdEncoding.DecodeString(body.DrawingData)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "drawingData is not valid base64"})
			return
		}
		req.Image = img
	}
	log.Info("generate request", "prompt", body.Prompt, "drawing_bytes", len(req.Image), "save", body.SaveToFile)

	resp, err := h.Service.Generate(r.Context(), req)
	if err == nil && !resp.Success {
		err = Check(resp)
	}
	if err != nil {
		log.Error("generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, wireResponse{Success: false, Error: failureText(resp, err)})
		return
	}

	out := wireResponse{Success: true, Message: resp.Message}
	if len(resp.Image) > 0 {
		out.ImageData = base64.StdEncoding.EncodeToString(resp.Image)
		if body.SaveToFile && h.ArchiveDir != "" {
			name, err := h.archive(resp.Image)
			if err != nil {
				log.Error("archive failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, wireResponse{Success: false, Error: err.Error()})
				return
			}
			out.FileName = name
			out.FilePath = path.Join(h.archiveURL(), name)
			log.Info("archived image", "file", name)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ArchiveName returns the file name used for an image archived at t.
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("gemini-image-%d.png", t.UnixMilli())
}

func (h *Handler) archive(img []byte) (string, error) {
	if err := os.MkdirAll(h.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := ArchiveName(now())
	if err := os.WriteFile(filepath.Join(h.ArchiveDir, name), img, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func (h *Handler) archiveURL() string {
	if h.ArchiveURL == "" {
		return DefaultArchiveURL
	}
	return "/" + strings.Trim(h.ArchiveURL, "/")
}

func failureText(resp Response, err error) string {
	if resp.Error != "" {
		return resp.Error
	}
	msg := err.Error()
	if errors.Is(err, ErrGenerationFailed) {
		msg = strings.TrimPrefix(msg, ErrGenerationFailed.Error()+": ")
	}
	if msg == "" {
		return "Failed to generate image"
	}
	return msg
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
