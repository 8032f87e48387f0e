package handler

import "net/http"

func (h *Handler) handleListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.billing.ListPackages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]packageResponse, 0, len(packages))
	for _, p := range packages {
		items = append(items, toPackageResponse(p))
	}
	writeJSON(w, http.StatusOK, listResponse[packageResponse]{Items: items})
}

func (h *Handler) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.billing.GetPackage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPackageResponse(pkg))
}
