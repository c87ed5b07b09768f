package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/hasssanezzz/bloomspell/internal/spell"
	"github.com/hasssanezzz/bloomspell/shared"
)

// MaxMemberSize caps the request body accepted as one member.
const MaxMemberSize = 1 << 20

type API struct {
	Set    spell.Set
	Logger *slog.Logger
}

func New(set spell.Set, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{Set: set, Logger: logger}
}

func (api *API) getHandler(w http.ResponseWriter, r *http.Request) {
	values, ok := r.Header[http.CanonicalHeaderKey(shared.MemberHeader)]
	if !ok {
		http.Error(w, "missing "+shared.MemberHeader+" header", http.StatusBadRequest)
		return
	}

	if !api.Set.Check([]byte(values[0])) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("maybe\n"))
}

func (api *API) postHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMemberSize))
	if err != nil {
		api.Logger.Warn("api: unable to read member", "error", err)
		http.Error(w, "Unable to read body", http.StatusBadRequest)
		return
	}

	api.Set.Add(body)
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (api *API) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", api.healthHandler)
	mux.HandleFunc("GET /", api.getHandler)
	mux.HandleFunc("POST /", api.postHandler)
	mux.HandleFunc("PUT /", api.postHandler)
}
