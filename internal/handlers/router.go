package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oncolane/caseboard/internal/ai"
	"github.com/oncolane/caseboard/internal/config"
	"github.com/oncolane/caseboard/internal/database"
	"github.com/oncolane/caseboard/internal/middleware"
	"github.com/oncolane/caseboard/internal/services/his"
	"github.com/oncolane/caseboard/internal/services/meetings"
	"github.com/oncolane/caseboard/internal/services/storage"
	"github.com/oncolane/caseboard/internal/utils"
	"github.com/oncolane/caseboard/internal/websocket"
	"github.com/oncolane/caseboard/internal/workflow"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the services the handlers touch
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	sessions *workflow.SessionManager
	wf       *workflow.Workflow
	meetings *meetings.Service
	store    storage.Store
	hub      *websocket.Hub

	hisClient  *his.Client    // optional
	summarizer *ai.Summarizer // optional
}

// Deps bundles the collaborators handed to the router.
type Deps struct {
	DB         *database.DB
	Cfg        *config.Config
	Sessions   *workflow.SessionManager
	Workflow   *workflow.Workflow
	Meetings   *meetings.Service
	Store      storage.Store
	Hub        *websocket.Hub
	HISClient  *his.Client
	Summarizer *ai.Summarizer
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(d Deps) *Router {
	r := &Router{
		Router:     mux.NewRouter(),
		db:         d.DB,
		cfg:        d.Cfg,
		sessions:   d.Sessions,
		wf:         d.Workflow,
		meetings:   d.Meetings,
		store:      d.Store,
		hub:        d.Hub,
		hisClient:  d.HISClient,
		summarizer: d.Summarizer,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(d.Cfg.JWTSecret))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Boards
	api.HandleFunc("/boards", r.listBoards).Methods("GET")
	api.HandleFunc("/boards", r.createBoard).Methods("POST")
	api.HandleFunc("/boards/{id}/members", r.addBoardMember).Methods("POST")

	// Case intake wizard
	api.HandleFunc("/intake", r.startIntake).Methods("POST")
	api.HandleFunc("/intake", r.getIntake).Methods("GET")
	api.HandleFunc("/intake", r.abandonIntake).Methods("DELETE")
	api.HandleFunc("/intake/metadata", r.putIntakeMetadata).Methods("PUT")
	api.HandleFunc("/intake/prefill", r.prefillPatient).Methods("GET")
	api.HandleFunc("/intake/documents", r.uploadDocument).Methods("POST")
	api.HandleFunc("/intake/documents/{id}", r.removeDocument).Methods("DELETE")
	api.HandleFunc("/intake/documents/{id}/content", r.getDocumentContent).Methods("GET")
	api.HandleFunc("/intake/documents/{id}/anonymization-visit", r.markAnonymizationVisit).Methods("POST")
	api.HandleFunc("/intake/documents/{id}/anonymization-edit", r.applyAnonymizationEdit).Methods("POST")
	api.HandleFunc("/intake/documents/{id}/digitization-visit", r.markDigitizationVisit).Methods("POST")
	api.HandleFunc("/intake/advance", r.advanceIntake).Methods("POST")
	api.HandleFunc("/intake/back", r.backIntake).Methods("POST")
	api.HandleFunc("/intake/submit", r.submitIntake).Methods("POST")

	// Meetings
	api.HandleFunc("/meetings", r.createMeeting).Methods("POST")
	api.HandleFunc("/meetings", r.listMeetings).Methods("GET")
	api.HandleFunc("/meetings/upcoming", r.upcomingMeetings).Methods("GET")
	api.HandleFunc("/meetings/{id}/join", r.joinMeeting).Methods("GET")
	api.HandleFunc("/meetings/{id}/qr", r.meetingQR).Methods("GET")
	api.HandleFunc("/meetings/{id}/status", r.updateMeetingStatus).Methods("PATCH")
	api.HandleFunc("/meetings/{id}", r.deleteMeeting).Methods("DELETE")

	// Submitted cases
	api.HandleFunc("/cases", r.listCases).Methods("GET")
	api.HandleFunc("/cases/{id}/export", r.exportCase).Methods("GET")
	api.HandleFunc("/cases/{id}/draft-summary", r.draftCaseSummary).Methods("GET")

	// Realtime push (token via query param, browsers cannot set headers
	// on websocket upgrade)
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.Cfg.FrontendDir)))

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// serveWs upgrades an authenticated request to a push connection
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	claims, err := utils.ValidateToken(token, r.cfg.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}
	userID, _ := claims["id"].(string)
	if userID == "" {
		http.Error(w, "Invalid token claims", http.StatusUnauthorized)
		return
	}
	websocket.ServeWs(r.hub, userID, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
