package handlers

import (
	"fmt"
	"net/http"

	"github.com/oncolane/caseboard/internal/middleware"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/oncolane/caseboard/internal/services/export"
	"github.com/gorilla/mux"
)

// listCases returns the current user's submitted cases
func (r *Router) listCases(w http.ResponseWriter, req *http.Request) {
	var cases []models.CaseRecord
	err := r.db.Preload("Attachments").
		Where("owner_id = ?", middleware.UserID(req)).
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cases")
		return
	}

	respondJSON(w, http.StatusOK, cases)
}

// caseForUser loads a case record owned by the current user.
func (r *Router) caseForUser(req *http.Request) (*models.CaseRecord, error) {
	var record models.CaseRecord
	err := r.db.Preload("Attachments").
		Where("id = ? AND owner_id = ?", mux.Vars(req)["id"], middleware.UserID(req)).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// exportCase renders the case summary sheet as a PDF
func (r *Router) exportCase(w http.ResponseWriter, req *http.Request) {
	record, err := r.caseForUser(req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}

	pdf, err := export.CaseSummaryPDF(record)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render case summary")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", record.CaseName))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// draftCaseSummary asks the AI service for a discussion opener draft
func (r *Router) draftCaseSummary(w http.ResponseWriter, req *http.Request) {
	if r.summarizer == nil {
		respondError(w, http.StatusNotImplemented, "AI summaries are not configured")
		return
	}

	record, err := r.caseForUser(req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}

	draft, err := r.summarizer.DraftDiscussionSummary(req.Context(), record)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to draft summary")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"caseId": record.ID,
		"draft":  draft,
	})
}
