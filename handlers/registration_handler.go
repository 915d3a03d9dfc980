package handlers

import (
	"net/http"

	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/Mr-Racnok/akui-esport/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// SaveRegistration принимает заявку команды. Результат всегда
// структурированный: бизнес-отказы (окно, дубликаты, валидация) приходят как
// 200 с success=false, чтобы форма показала сообщение без разбора HTTP-кодов.
func (h *RegistrationHandler) SaveRegistration(w http.ResponseWriter, r *http.Request) {
	var input models.RegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result := h.registrationService.Register(r.Context(), input)

	status := http.StatusOK
	if result.Success {
		status = http.StatusCreated
	}
	if err := writeJSON(w, status, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
