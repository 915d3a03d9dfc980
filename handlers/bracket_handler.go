package handlers

import (
	"net/http"

	"github.com/Mr-Racnok/akui-esport/services"
)

type BracketHandler struct {
	bracketService  services.BracketService
	scheduleService services.ScheduleService
}

func NewBracketHandler(bs services.BracketService, ss services.ScheduleService) *BracketHandler {
	return &BracketHandler{
		bracketService:  bs,
		scheduleService: ss,
	}
}

// GetBracket отдаёт статичную single-elimination сетку.
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	overview, err := h.bracketService.Overview(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"success":  true,
		"overview": overview,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSchedule отдаёт расписание сессий игрового дня.
func (h *BracketHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	result := h.scheduleService.Sessions(r.Context())
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
