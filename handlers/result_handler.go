package handlers

import (
	"net/http"

	"github.com/strikezone/league-system/services"
)

// ResultHandler обслуживает состав турнира: допуск, заявки и счёты.
type ResultHandler struct {
	participantService *services.ParticipantService
}

func NewResultHandler(participantService *services.ParticipantService) *ResultHandler {
	return &ResultHandler{participantService: participantService}
}

// ListHandler обрабатывает GET /tournaments/{tournamentID}/results
func (h *ResultHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.participantService.GetTournamentResults(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdmitHandler обрабатывает POST /tournaments/{tournamentID}/participants
func (h *ResultHandler) AdmitHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.participantService.AdmitPlayer(r.Context(), tournamentID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateScoresHandler обрабатывает PUT /tournaments/{tournamentID}/participants/{playerID}/scores
func (h *ResultHandler) UpdateScoresHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ScoresInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.participantService.UpdateScores(r.Context(), tournamentID, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApplyHandler обрабатывает POST /tournaments/{tournamentID}/applications
func (h *ResultHandler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	application, err := h.participantService.Apply(r.Context(), tournamentID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"application": application}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListApplicationsHandler обрабатывает GET /tournaments/{tournamentID}/applications
func (h *ResultHandler) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	applications, err := h.participantService.ListApplications(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": applications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveApplicationHandler обрабатывает PATCH /applications/{applicationID}
func (h *ResultHandler) ResolveApplicationHandler(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Approve bool `json:"approve"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	application, err := h.participantService.ResolveApplication(r.Context(), applicationID, input.Approve)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": application}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
