package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coverly/advisor/internal/attachment"
	"github.com/coverly/advisor/internal/composer"
	"github.com/coverly/advisor/internal/profile"
)

// maxChatBodySize caps the whole multipart payload: message, profile
// snapshot, and uploaded policy documents.
const maxChatBodySize = 25 << 20 // 25MB

// memoryFormLimit is how much of the multipart body is held in memory
// before parts spill to temp files.
const memoryFormLimit = 4 << 20

// GenericErrorMessage is the only failure text the advisory endpoint ever
// returns to callers. Internal detail goes to the logs, never the wire.
const GenericErrorMessage = "Sorry, there was an error connecting to the server."

// Completer abstracts the provider client for the HTTP layer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatResponse is the /chat success payload.
type ChatResponse struct {
	Response        string `json:"response"`
	ProfileReceived bool   `json:"profile_received"`
	FilesReceived   bool   `json:"files_received"`
}

// NewHandler returns the advisory HTTP API. Every request is anonymous
// and handled independently; the only shared state is the immutable
// provider client behind the Completer.
func NewHandler(completer Completer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(allowCORS)

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	r.Get("/profile/schema", handleProfileSchema)
	r.Post("/chat", handleChat(completer))

	return r
}

// allowCORS lets the browser frontend call the API from any origin and
// answers preflight requests before routing.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Insurance Assistant API is running"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleProfileSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"fields": profile.FieldNames()})
}

// handleChat is the sole advisory operation: parse the multipart payload,
// compose the prompt, forward it to the provider, and shape the reply.
// Stateless across calls; nothing from one turn survives to the next.
func handleChat(completer Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(memoryFormLimit); err != nil {
			slog.Error("parsing chat form", "error", err)
			serverError(w)
			return
		}
		defer r.MultipartForm.RemoveAll()

		message := r.FormValue("message")

		profileJSON := r.FormValue("profile")
		if profileJSON == "" {
			profileJSON = "{}"
		}
		prof, err := profile.Parse(profileJSON)
		if err != nil {
			// Malformed snapshots degrade to an empty profile; the
			// request itself must still succeed.
			slog.Warn("invalid profile snapshot, continuing without profile context", "error", err)
		}

		attachments := attachment.FromMultipart(r.MultipartForm, "files")
		names := attachment.Names(attachments)

		prompt := composer.Compose(message, prof, names)

		content, err := completer.Complete(r.Context(), composer.SystemInstruction, prompt.Text)
		if err != nil {
			slog.Error("advisory completion failed", "error", err)
			serverError(w)
			return
		}

		slog.Debug("advisory turn served",
			"profile_received", prompt.ProfileReceived,
			"files_received", prompt.FilesReceived,
			"attachments", len(names),
		)
		writeJSON(w, http.StatusOK, ChatResponse{
			Response:        content,
			ProfileReceived: prompt.ProfileReceived,
			FilesReceived:   prompt.FilesReceived,
		})
	}
}

// serverError writes the single generic failure shape. Every failure past
// the routing layer converges here with a 500; detail stays in the logs.
func serverError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": GenericErrorMessage})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
