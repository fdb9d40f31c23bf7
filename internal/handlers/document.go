package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/storage"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DocumentHandler serves document CRUD plus the two evaluation endpoints.
// Mutations go through a load-mutate-save cycle per request; the handler
// relies on the single-writer discipline of the variable tree and holds no
// locks of its own.
type DocumentHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewDocumentHandler(storage storage.Storage, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP routes document requests:
//
//	POST   /v1/documents               - create a document
//	GET    /v1/documents               - list document IDs
//	GET    /v1/documents/{id}          - read a document
//	DELETE /v1/documents/{id}          - delete a document
//	POST   /v1/documents/{id}/evaluate - AND-evaluate a set of operations
//	POST   /v1/documents/{id}/apply    - apply a set of actions and save
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/documents"), "/")

	if rest == "" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET")
		}
		return
	}

	idStr, action, _ := strings.Cut(rest, "/")
	docID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid document ID", "id", idStr, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, docID)
		case http.MethodDelete:
			h.handleDelete(w, r, docID)
		default:
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}
	case "evaluate":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleEvaluate(w, r, docID)
	case "apply":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleApply(w, r, docID)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown document operation: "+action)
	}
}

// CreateDocumentRequest defines the request body for creating a document.
// Root is optional; when omitted, the document starts with an empty root
// group.
type CreateDocumentRequest struct {
	Name string      `json:"name,omitempty"`
	Root *vars.Group `json:"root,omitempty"`
}

func (h *DocumentHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new document")

	// An empty body creates an empty document.
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	doc := vars.NewDocument(req.Name)
	if req.Root != nil {
		doc.Root = req.Root
		doc.Root.RebuildParentLinks()
	}

	if errs := doc.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		h.logger.Warn("Document failed validation", "errors", msgs)
		h.writeError(w, http.StatusBadRequest, "Invalid document: "+strings.Join(msgs, "; "))
		return
	}

	if err := h.storage.SaveDocument(r.Context(), doc.ID, doc); err != nil {
		h.logger.Error("Failed to save document", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, doc)
}

func (h *DocumentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListDocuments(r.Context())
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	h.writeJSON(w, map[string][]uuid.UUID{"documents": ids})
}

func (h *DocumentHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	doc, err := h.storage.LoadDocument(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load document", "uuid", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}
	if doc == nil {
		h.writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	h.writeJSON(w, doc)
}

func (h *DocumentHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteDocument(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete document", "uuid", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateRequest carries the operations to AND-reduce against a document.
type EvaluateRequest struct {
	Operations []conditions.Operation `json:"operations"`
}

// OperationResult reports one operation's outcome plus which addressing
// stage satisfied its reference, for diagnostics.
type OperationResult struct {
	Result     bool   `json:"result"`
	ResolvedBy string `json:"resolved_by"`
}

type EvaluateResponse struct {
	Result     bool              `json:"result"`
	Operations []OperationResult `json:"operations"`
}

func (h *DocumentHandler) handleEvaluate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	doc, err := h.storage.LoadDocument(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load document", "uuid", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}
	if doc == nil {
		h.writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	resp := EvaluateResponse{Result: true, Operations: make([]OperationResult, 0, len(req.Operations))}
	for _, op := range req.Operations {
		result := conditions.Evaluate(doc.Root, op, h.logger)
		_, stage := op.Ref.Resolve(doc.Root)
		resp.Operations = append(resp.Operations, OperationResult{
			Result:     result,
			ResolvedBy: stage.String(),
		})
		if !result {
			resp.Result = false
		}
	}

	h.writeJSON(w, resp)
}

// ApplyRequest carries the actions to run against a document, in order.
type ApplyRequest struct {
	Actions []actions.Action `json:"actions"`
}

func (h *DocumentHandler) handleApply(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	doc, err := h.storage.LoadDocument(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load document", "uuid", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}
	if doc == nil {
		h.writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	actions.ApplyAll(doc.Root, req.Actions, h.logger)

	if err := h.storage.SaveDocument(r.Context(), id, doc); err != nil {
		h.logger.Error("Failed to save document", "uuid", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}

	h.writeJSON(w, doc)
}

func (h *DocumentHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

func (h *DocumentHandler) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
