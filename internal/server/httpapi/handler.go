// Package httpapi exposes the document library over a JSON HTTP API:
// account sign-up and login, password recovery, and owner-scoped document
// CRUD behind bearer-token auth.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okarpovs/doclib/internal/common"
	"github.com/okarpovs/doclib/internal/extract"
	"github.com/okarpovs/doclib/internal/logging"
	"github.com/okarpovs/doclib/internal/server/models"
	"github.com/okarpovs/doclib/internal/server/services"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 10 << 20

// UserProvider is the account service surface the API needs.
type UserProvider interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

// ResetProvider issues and redeems password recovery tokens.
type ResetProvider interface {
	Issue(ctx context.Context, email string) (string, error)
	Redeem(ctx context.Context, email, token, newPassword string) error
}

// DocumentProvider is the document service surface the API needs.
type DocumentProvider interface {
	Save(ctx context.Context, ownerID, content, filename, mime string) (*models.Document, error)
	List(ctx context.Context, ownerID string) ([]*models.Document, error)
	Get(ctx context.Context, id, ownerID string) (*models.Document, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Handler wires the HTTP endpoints to the service layer.
type Handler struct {
	users     UserProvider
	resets    ResetProvider
	documents DocumentProvider
	logger    logging.Logger
}

func NewHandler(users UserProvider, resets ResetProvider, documents DocumentProvider, logger logging.Logger) *Handler {
	return &Handler{users: users, resets: resets, documents: documents, logger: logger}
}

// --- request/response DTOs ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type saveDocumentRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MIME      string    `json:"mime"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toDocumentResponse(d *models.Document, withContent bool) documentResponse {
	resp := documentResponse{
		ID:        d.ID,
		Filename:  d.Filename,
		MIME:      d.MIME,
		CreatedAt: d.CreatedAt,
	}
	if withContent {
		resp.Content = d.Content
	}
	return resp
}

// --- auth endpoints ---

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidInput):
			JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Email and password are required"})
		case errors.Is(err, common.ErrDuplicateEmail):
			JSONResponse(w, http.StatusConflict, Payload{Success: false, Message: "Email already registered"})
		default:
			h.internalError(w, r, "register failed", err)
		}
		return
	}

	JSONResponse(w, http.StatusCreated, Payload{
		Success: true,
		Message: "Account created",
		Data:    map[string]string{"id": user.ID, "email": user.Email},
	})
}

func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			JSONResponse(w, http.StatusUnauthorized, Payload{Success: false, Message: "Invalid email or password"})
			return
		}
		h.internalError(w, r, "login failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, Payload{
		Success: true,
		Message: "Logged in",
		Data:    map[string]string{"access_token": sess.AccessToken},
	})
}

// RecoverPassword issues a one-shot reset token for the account. The token
// is returned in the response body; a real deployment would deliver it out
// of band instead.
func (h *Handler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.resets.Issue(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			JSONResponse(w, http.StatusNotFound, Payload{Success: false, Message: "Email not found"})
			return
		}
		h.internalError(w, r, "recover failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, Payload{
		Success: true,
		Message: "Reset token issued",
		Data:    map[string]string{"reset_token": token},
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.resets.Redeem(r.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Invalid or already used reset token"})
		case errors.Is(err, common.ErrInvalidInput):
			JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Email and new password are required"})
		default:
			h.internalError(w, r, "reset failed", err)
		}
		return
	}

	JSONResponse(w, http.StatusOK, Payload{Success: true, Message: "Password updated"})
}

// --- document endpoints ---

// SaveDocument stores pasted text as a document. Filename and MIME are
// optional; blank values get the pasted-text defaults.
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	ownerID := UserIDFromContext(r.Context())

	var req saveDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documents.Save(r.Context(), ownerID, req.Content, req.Filename, req.MIME)
	if err != nil {
		if errors.Is(err, common.ErrEmptyContent) {
			JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Document content is empty"})
			return
		}
		h.internalError(w, r, "save document failed", err)
		return
	}

	JSONResponse(w, http.StatusCreated, Payload{
		Success: true,
		Message: "Document saved",
		Data:    toDocumentResponse(doc, false),
	})
}

// UploadDocument accepts a multipart upload under the "file" field, extracts
// plain text from it, and stores the result as a document.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ownerID := UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.internalError(w, r, "reading upload failed", err)
		return
	}

	content, err := extract.Text(data, header.Filename)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedFormat) {
			JSONResponse(w, http.StatusUnsupportedMediaType, Payload{Success: false, Message: "Unsupported file format"})
			return
		}
		JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Could not extract text from file"})
		return
	}

	doc, err := h.documents.Save(r.Context(), ownerID, content, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, common.ErrEmptyContent) {
			JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Document content is empty"})
			return
		}
		h.internalError(w, r, "save document failed", err)
		return
	}

	JSONResponse(w, http.StatusCreated, Payload{
		Success: true,
		Message: "Document saved",
		Data:    toDocumentResponse(doc, false),
	})
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID := UserIDFromContext(r.Context())

	docs, err := h.documents.List(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, "list documents failed", err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d, false))
	}

	JSONResponse(w, http.StatusOK, Payload{Success: true, Message: "OK", Data: out})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ownerID := UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	doc, err := h.documents.Get(r.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			JSONResponse(w, http.StatusNotFound, Payload{Success: false, Message: "Document not found"})
			return
		}
		h.internalError(w, r, "get document failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, Payload{Success: true, Message: "OK", Data: toDocumentResponse(doc, true)})
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ownerID := UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.documents.Delete(r.Context(), id, ownerID); err != nil {
		h.internalError(w, r, "delete document failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, Payload{Success: true, Message: "Document deleted"})
}

// --- helpers ---

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSONResponse(w, http.StatusBadRequest, Payload{Success: false, Message: "Invalid request body"})
		return false
	}
	return true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(r.Context(), msg, "error", err, "path", r.URL.Path)
	JSONResponse(w, http.StatusInternalServerError, Payload{Success: false, Message: "Internal server error"})
}
