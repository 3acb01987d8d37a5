package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/huntable/treasurehunt-api/internal/auth"
	"github.com/huntable/treasurehunt-api/internal/models"
	"github.com/huntable/treasurehunt-api/internal/services"
	"github.com/huntable/treasurehunt-api/internal/tts"
)

type Handler struct {
	parents     *services.ParentService
	children    *services.ChildService
	catalog     *services.CatalogService
	submissions *services.SubmissionService
	jwt         *auth.JWTService
	speaker     tts.Speaker
	maxUpload   int64
}

func NewHandler(parents *services.ParentService, children *services.ChildService,
	catalog *services.CatalogService, submissions *services.SubmissionService,
	jwtService *auth.JWTService, speaker tts.Speaker, maxUpload int64) *Handler {
	return &Handler{
		parents:     parents,
		children:    children,
		catalog:     catalog,
		submissions: submissions,
		jwt:         jwtService,
		speaker:     speaker,
		maxUpload:   maxUpload,
	}
}

// RegisterRoutes wires the API surface onto public and authenticated subrouters
func (h *Handler) RegisterRoutes(public, authed *mux.Router) {
	public.HandleFunc("/auth/register", h.Register).Methods("POST")
	public.HandleFunc("/auth/login", h.Login).Methods("POST")
	public.HandleFunc("/activities", h.ListActivities).Methods("GET")
	public.HandleFunc("/activities/{id}/audio", h.ActivityAudio).Methods("GET")

	authed.Handle("/activities/generate", auth.RequireAdmin(http.HandlerFunc(h.GenerateActivities))).Methods("POST")
	authed.HandleFunc("/activities/{id}/submit-photo", h.SubmitPhoto).Methods("POST")
	authed.HandleFunc("/children", h.CreateChild).Methods("POST")
	authed.HandleFunc("/children/{id}", h.GetChild).Methods("GET")
	authed.HandleFunc("/children/{id}/tokens", h.GetTokens).Methods("GET")
	authed.HandleFunc("/children/{id}/completions", h.ListCompletions).Methods("GET")
}

// POST /api/v1/auth/register - create a parent account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	parent, err := h.parents.Register(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, parent)
}

// POST /api/v1/auth/login - exchange credentials for a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	parent, err := h.parents.Authenticate(&req)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.jwt.GenerateToken(parent.ID, parent.Email, parent.IsAdmin)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, Parent: parent})
}

// GET /api/v1/activities - list activities with optional filters
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	filter := models.ActivityFilter{
		Category: models.Category(r.URL.Query().Get("category")),
		Location: r.URL.Query().Get("location"),
	}

	if ageStr := r.URL.Query().Get("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid age parameter", nil)
			return
		}
		filter.Age = &age
	}

	activities, err := h.catalog.List(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}

// POST /api/v1/activities/generate - AI generation (admin)
func (h *Handler) GenerateActivities(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	activities, err := h.catalog.Generate(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"generated":  len(activities),
		"activities": activities,
	})
}

// POST /api/v1/activities/{id}/submit-photo - multipart photo upload
func (h *Handler) SubmitPhoto(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r)
	if !ok {
		return
	}

	childID, err := strconv.ParseInt(r.URL.Query().Get("child_id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "child_id query parameter required", nil)
		return
	}

	child, err := h.children.GetChild(childID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !h.ownsChild(r, child) {
		respondWithError(w, http.StatusForbidden, "Child belongs to another account", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1024*1024)
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "photo file required", err)
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read photo", err)
		return
	}

	result, err := h.submissions.Submit(r.Context(), activityID, childID, photo, header.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/children - create a child profile
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req models.CreateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	child, err := h.children.CreateChild(claims.ParentID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, child)
}

// GET /api/v1/children/{id} - child profile including balance
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	child, ok := h.ownedChild(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, child)
}

// GET /api/v1/children/{id}/tokens - token balance
func (h *Handler) GetTokens(w http.ResponseWriter, r *http.Request) {
	child, ok := h.ownedChild(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"child_id": child.ID,
		"tokens":   child.TokenBalance,
	})
}

// GET /api/v1/children/{id}/completions - completion history
func (h *Handler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	child, ok := h.ownedChild(w, r)
	if !ok {
		return
	}

	completions, err := h.children.Completions(child.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"child_id":    child.ID,
		"completions": completions,
	})
}

// ownedChild loads the {id} child and enforces parent ownership
func (h *Handler) ownedChild(w http.ResponseWriter, r *http.Request) (*models.Child, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	child, err := h.children.GetChild(id)
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}

	if !h.ownsChild(r, child) {
		respondWithError(w, http.StatusForbidden, "Child belongs to another account", nil)
		return nil, false
	}
	return child, true
}

func (h *Handler) ownsChild(r *http.Request, child *models.Child) bool {
	claims, ok := auth.FromContext(r)
	return ok && claims.ParentID == child.ParentID
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id", nil)
		return 0, false
	}
	return id, true
}
