package handlers

import (
	"errors"
	"net/http"

	"github.com/Mr-Racnok/akui-esport/services"
)

const maxLogoBytes = 2 << 20 // 2MB

type LogoHandler struct {
	logoService services.LogoService
}

func NewLogoHandler(ls services.LogoService) *LogoHandler {
	return &LogoHandler{logoService: ls}
}

// UploadLogo принимает multipart-форму с полем "logo" и возвращает публичный
// URL, который форма регистрации подставит в logoUrl.
func (h *LogoHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes)

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("request must contain a \"logo\" file field"))
		return
	}
	defer file.Close()

	if header.Size == 0 {
		mapServiceErrorToHTTP(w, r, services.ErrLogoEmpty)
		return
	}

	logoURL, err := h.logoService.UploadLogo(r.Context(), header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"logoUrl": logoURL,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
