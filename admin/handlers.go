package admin

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"dollardash/filemgr"
	"dollardash/imagestore"
	"dollardash/mode"
	"dollardash/models"
	"dollardash/utils"

	"github.com/julienschmidt/httprouter"
)

const maxImportSize = 5 << 20

// Sender broadcasts a notification to a websocket room.
type Sender interface {
	Send(ctx context.Context, n models.Notification)
}

type Handler struct {
	mgr    *Manager
	images *Images
	drive  *Drive
	notify Sender
}

func NewHandler(mgr *Manager, images *Images, drive *Drive, notify Sender) *Handler {
	return &Handler{mgr: mgr, images: images, drive: drive, notify: notify}
}

func respondErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mode.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, imagestore.ErrNotConnected):
		utils.RespondWithError(w, http.StatusConflict, "Please connect image storage in Settings first")
	default:
		log.Printf("[Admin] %s: %v", fallback, err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.mgr.Products())
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in ProductInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	p, err := h.mgr.CreateProduct(r.Context(), in)
	if err != nil {
		respondErr(w, err, "Failed to save product")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in ProductInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	p, err := h.mgr.UpdateProduct(r.Context(), ps.ByName("id"), in)
	if err != nil {
		respondErr(w, err, "Failed to save product")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.mgr.DeleteProduct(r.Context(), ps.ByName("id")); err != nil {
		respondErr(w, err, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportProducts accepts a raw CSV or JSON body, or a multipart "file" field.
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Import file missing")
			return
		}
		defer file.Close()
		src = file
	}
	data, err := io.ReadAll(src)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Could not read import file")
		return
	}

	res, err := h.mgr.Import(r.Context(), data)
	if errors.Is(err, ErrImportFormat) {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondErr(w, err, "Import interrupted")
		return
	}
	utils.SendResponse(w, http.StatusOK, res, "Import finished", nil)
}

func (h *Handler) ImageFromURL(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		URL string `json:"url"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	url, err := h.images.FromURL(in.URL)
	if err != nil {
		respondErr(w, err, "Invalid image link")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

func readImage(w http.ResponseWriter, r *http.Request) (filemgr.Upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, filemgr.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(filemgr.MaxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return filemgr.Upload{}, false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file missing")
		return filemgr.Upload{}, false
	}
	defer file.Close()

	u, err := filemgr.ReadUpload(file, header, filemgr.MaxUploadSize)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return filemgr.Upload{}, false
	}
	return u, true
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := h.images.Backend(); !ok {
		respondErr(w, imagestore.ErrNotConnected, "")
		return
	}
	u, ok := readImage(w, r)
	if !ok {
		return
	}
	url, err := h.images.Upload(r.Context(), u)
	if err != nil {
		respondErr(w, err, "Upload failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	u, ok := readImage(w, r)
	if !ok {
		return
	}
	res, err := h.images.Analyze(r.Context(), u)
	if err != nil {
		respondErr(w, err, "Upload failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.mgr.Orders())
}

func (h *Handler) ClearOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.mgr.ClearOrders(r.Context()); err != nil {
		respondErr(w, err, "Failed to clear orders")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type driveResponse struct {
	DriveStatus
	Backend string `json:"backend"`
	Ready   bool   `json:"ready"`
}

func (h *Handler) driveStatus() driveResponse {
	name, ready := h.images.Backend()
	return driveResponse{DriveStatus: h.drive.Status(), Backend: name, Ready: ready}
}

func (h *Handler) DriveStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.driveStatus())
}

func (h *Handler) ConnectDrive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int    `json:"expiresIn"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if _, err := h.drive.Connect(in.AccessToken, time.Duration(in.ExpiresIn)*time.Second); err != nil {
		if errors.Is(err, ErrEmptyDriveToken) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondErr(w, err, "Failed to save drive token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.driveStatus())
}

func (h *Handler) DisconnectDrive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.drive.Disconnect(); err != nil {
		respondErr(w, err, "Failed to disconnect drive")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.driveStatus())
}

// Notify broadcasts an admin-authored message.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var n models.Notification
	if err := utils.DecodeJSON(w, r, &n); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Notification title is required")
		return
	}
	if n.Room != "" && n.Room != models.RoomShop && n.Room != models.RoomAdmin {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown room")
		return
	}
	n.Timestamp = 0
	h.notify.Send(r.Context(), n)
	w.WriteHeader(http.StatusAccepted)
}
