package main

import (
	"net/http"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Env     string        `json:"env"`
	Version string        `json:"version"`
	Catalog catalogStatus `json:"catalog"`
}

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Service status, version and the state of the catalog being served.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:  "ok",
		Env:     app.config.Env,
		Version: version,
		Catalog: app.catalogInfo(),
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
