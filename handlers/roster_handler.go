package handlers

import (
	"net/http"

	"github.com/Mr-Racnok/akui-esport/services"
)

type RosterHandler struct {
	rosterService services.RosterService
	maxTeams      int
}

func NewRosterHandler(rs services.RosterService, maxTeams int) *RosterHandler {
	return &RosterHandler{
		rosterService: rs,
		maxTeams:      maxTeams,
	}
}

// GetRegisteredTeams отдаёт полный ростер для страницы зарегистрированных
// команд.
func (h *RosterHandler) GetRegisteredTeams(w http.ResponseWriter, r *http.Request) {
	result := h.rosterService.ListRegisteredTeams(r.Context())
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeamCount отдаёт счётчик "X / maxTeams" для лендинга; квота
// проверяется на стороне UI.
func (h *RosterHandler) GetTeamCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.rosterService.TeamCount(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"success":   true,
		"teamCount": count,
		"maxTeams":  h.maxTeams,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
