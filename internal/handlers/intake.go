package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oncolane/caseboard/internal/middleware"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/oncolane/caseboard/internal/workflow"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const maxUploadBytes = 32 << 20 // 32MB

// startIntake opens a new intake session for the current user
func (r *Router) startIntake(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var body struct {
		BoardID string `json:"boardId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.BoardID == "" {
		respondError(w, http.StatusBadRequest, "boardId is required")
		return
	}

	session, err := r.sessions.Start(userID, body.BoardID)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// getIntake returns the current session state
func (r *Router) getIntake(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// abandonIntake discards the session and its stored blobs
func (r *Router) abandonIntake(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Discard(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	// Best-effort blob cleanup; the session is gone either way
	for _, doc := range session.Documents {
		_ = r.store.Delete(req.Context(), doc.StorageKey)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Intake session discarded"})
}

// putIntakeMetadata updates the patient and case blocks
func (r *Router) putIntakeMetadata(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	var body struct {
		Patient workflow.PatientMetadata `json:"patient"`
		Case    workflow.CaseMetadata    `json:"case"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session.Patient = body.Patient
	session.Case = body.Case

	respondJSON(w, http.StatusOK, session)
}

// prefillPatient looks patient demographics up in the HIS by MRN
func (r *Router) prefillPatient(w http.ResponseWriter, req *http.Request) {
	if r.hisClient == nil {
		respondError(w, http.StatusNotImplemented, "HIS lookup is not configured")
		return
	}

	mrn := req.URL.Query().Get("mrn")
	if mrn == "" {
		respondError(w, http.StatusBadRequest, "mrn query parameter is required")
		return
	}

	demographics, err := r.hisClient.LookupPatient(mrn)
	if err != nil {
		respondError(w, http.StatusBadGateway, "HIS lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, demographics)
}

// fileTypeFor maps an uploaded file name to the document type enum.
func fileTypeFor(fileName string) (string, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return workflow.FileTypePDF, true
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return workflow.FileTypeImage, true
	}
	return "", false
}

// uploadDocument stores an uploaded file and adds it to the session
func (r *Router) uploadDocument(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	fileType, ok := fileTypeFor(header.Filename)
	if !ok {
		respondError(w, http.StatusBadRequest, "Only PDF and image uploads are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if err := r.store.Put(req.Context(), key, data, contentType); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	doc, err := session.AddDocument(header.Filename, fileType, key)
	if err != nil {
		_ = r.store.Delete(req.Context(), key)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// removeDocument drops a document from the session and deletes its blob
func (r *Router) removeDocument(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	key, err := session.RemoveDocument(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	_ = r.store.Delete(req.Context(), key)
	respondJSON(w, http.StatusOK, session)
}

// getDocumentContent streams a session document's raw bytes
func (r *Router) getDocumentContent(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	doc, err := session.Document(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	data, err := r.store.Get(req.Context(), doc.StorageKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}

	w.Header().Set("Content-Disposition", "inline; filename=\""+doc.FileName+"\"")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// withSessionDocument resolves the session and the addressed document.
func (r *Router) withSessionDocument(w http.ResponseWriter, req *http.Request) (*workflow.Session, *workflow.Document, bool) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, nil, false
	}
	doc, err := session.Document(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, nil, false
	}
	return session, doc, true
}

// markAnonymizationVisit records an anonymization review visit
func (r *Router) markAnonymizationVisit(w http.ResponseWriter, req *http.Request) {
	_, doc, ok := r.withSessionDocument(w, req)
	if !ok {
		return
	}
	doc.MarkVisitedInAnonymization()
	respondJSON(w, http.StatusOK, doc)
}

// applyAnonymizationEdit records an anonymization change; any prior
// digitization review of the document is invalidated
func (r *Router) applyAnonymizationEdit(w http.ResponseWriter, req *http.Request) {
	_, doc, ok := r.withSessionDocument(w, req)
	if !ok {
		return
	}
	doc.ApplyAnonymizationEdit(time.Now())
	respondJSON(w, http.StatusOK, doc)
}

// markDigitizationVisit records a digitization review visit
func (r *Router) markDigitizationVisit(w http.ResponseWriter, req *http.Request) {
	_, doc, ok := r.withSessionDocument(w, req)
	if !ok {
		return
	}
	if err := doc.MarkVisitedInDigitization(); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// advanceIntake runs the current step's gate and moves forward on success
func (r *Router) advanceIntake(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	result, err := r.wf.Advance(req.Context(), session)
	switch {
	case errors.Is(err, workflow.ErrStaleNameCheck):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, workflow.ErrTerminalStep):
		respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "Validation check failed, please retry")
		return
	}

	if !result.Valid {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"result":  result,
			"session": session,
		})
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// backIntake navigates to an earlier, completed step
func (r *Router) backIntake(w http.ResponseWriter, req *http.Request) {
	session, err := r.sessions.Get(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	var body struct {
		Step workflow.Step `json:"step"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.wf.Back(session, body.Step); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// submitIntake persists the finished session as a case record
func (r *Router) submitIntake(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	session, err := r.sessions.Get(userID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if session.Step != workflow.StepReview {
		respondError(w, http.StatusConflict, "Session must reach the review step before submission")
		return
	}

	record := models.CaseRecord{
		OwnerID:     userID,
		BoardID:     session.BoardID,
		CaseName:    session.Case.Name,
		CancerType:  session.Case.CancerType,
		Notes:       session.Case.Notes,
		PatientName: session.Patient.Name,
		PatientAge:  session.Patient.Age,
		PatientSex:  session.Patient.Sex,
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i, doc := range session.Documents {
			att := models.CaseAttachment{
				CaseRecordID: record.ID,
				FileName:     doc.FileName,
				FileType:     doc.FileType,
				StorageKey:   doc.StorageKey,
				Position:     i,
			}
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// The unique (owner, case name) index can still race a
		// concurrent submission past the intake-time check
		respondError(w, http.StatusConflict, "Failed to submit case (duplicate case name?)")
		return
	}

	// The session is done; blobs now belong to the case record
	_, _ = r.sessions.Discard(userID)

	respondJSON(w, http.StatusCreated, record)
}
