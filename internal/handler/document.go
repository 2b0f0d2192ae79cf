package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// DocumentHandler manages document metadata. Bytes live in external object
// storage addressed by the storage key minted here; upload and download are
// the storage collaborator's concern.
type DocumentHandler struct {
	Documents    *repository.DocumentRepo
	Associations *service.AssociationService
}

func NewDocumentHandler(documents *repository.DocumentRepo, assoc *service.AssociationService) *DocumentHandler {
	return &DocumentHandler{Documents: documents, Associations: assoc}
}

type documentPart struct {
	ID          uint64    `json:"id"`
	AccountID   uint64    `json:"account_id"`
	OwnerUserID uint64    `json:"owner_user_id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDocumentPart(d model.Document) documentPart {
	return documentPart{
		ID: d.ID, AccountID: d.AccountID, OwnerUserID: d.OwnerUserID,
		Name: d.Name, MimeType: d.MimeType, SizeBytes: d.SizeBytes,
		StorageKey: d.StorageKey, CreatedAt: d.CreatedAt,
	}
}

// Create registers a document and mints its storage key.
func (h *DocumentHandler) Create(c echo.Context) error {
	var req struct {
		Name      string `json:"name" validate:"required,min=1,max=255"`
		MimeType  string `json:"mime_type" validate:"required,max=120"`
		SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	u, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.Document{
		AccountID:   scope.AccountID,
		OwnerUserID: u.ID,
		Name:        req.Name,
		MimeType:    req.MimeType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  uuid.NewString(),
	}
	if err := h.Documents.Create(ctx, &d); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"document": toDocumentPart(d)})
}

// Get fetches one document record.
func (h *DocumentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"document": toDocumentPart(d)})
}

// List returns the active account's documents, newest first.
func (h *DocumentHandler) List(c echo.Context) error {
	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Documents.ListByAccount(ctx, scope.AccountID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]documentPart, 0, len(items))
	for _, d := range items {
		out = append(out, toDocumentPart(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Delete removes the metadata row.
func (h *DocumentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Documents.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
