package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/travel-graph/backend/internal/domain"
)

// pathID binds the chi path parameter name as an ObjectID, the same way the
// generated oapi-codegen wrappers bind path parameters.
func pathID(r *http.Request, name string) (domain.ObjectID, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", err
	}
	return domain.ObjectID(id), nil
}

// queryID binds an optional form-style query parameter as an ObjectID.
// A missing parameter yields "".
func queryID(r *http.Request, name string) (domain.ObjectID, error) {
	var id string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &id); err != nil {
		return "", err
	}
	return domain.ObjectID(id), nil
}
