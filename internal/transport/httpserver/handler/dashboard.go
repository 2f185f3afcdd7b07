package handler

import (
	"net/http"

	memberdomain "yatra-app-go/internal/domain/member"
)

type busManifestResponse struct {
	BusNumber string           `json:"bus_number"`
	Total     int              `json:"total"`
	Paid      int              `json:"paid"`
	Members   []memberResponse `json:"members"`
}

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Members.Stats())
}

func (h *Handlers) DashboardBuses(w http.ResponseWriter, r *http.Request) {
	manifests := h.Members.BusManifests()
	items := make([]busManifestResponse, 0, len(manifests))
	for _, manifest := range manifests {
		items = append(items, toBusManifestResponse(manifest))
	}
	writeJSON(w, http.StatusOK, items)
}

func toBusManifestResponse(manifest memberdomain.BusManifest) busManifestResponse {
	paid := 0
	for _, m := range manifest.Members {
		if m.PaymentStatus == memberdomain.PaymentPaid {
			paid++
		}
	}
	return busManifestResponse{
		BusNumber: manifest.BusNumber,
		Total:     len(manifest.Members),
		Paid:      paid,
		Members:   toMemberResponses(manifest.Members),
	}
}
