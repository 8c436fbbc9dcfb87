package handler

import (
	"net/http"

	mw "github.com/edvin/botfarm/internal/api/middleware"
	"github.com/edvin/botfarm/internal/api/response"
	"github.com/edvin/botfarm/internal/model"
)

// requireIdentity extracts the authenticated caller. Writes 401 and returns
// false if the auth middleware did not run or the token carried no identity.
func requireIdentity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity := mw.GetIdentity(r.Context())
	if identity == nil {
		response.WriteError(w, http.StatusUnauthorized, "missing identity")
		return model.Identity{}, false
	}
	return *identity, true
}
