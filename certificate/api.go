package certificate

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/certify/certificate/pdf"
	"github.com/relabs-tech/certify/certificate/store"
	"github.com/relabs-tech/certify/core/csql"
	"github.com/relabs-tech/certify/core/logger"
)

// request bodies carry three short strings, anything bigger is abuse
const maxRequestBodySize = 1 << 20

// Response is the issuance confirmation returned to the caller.
type Response struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// ErrorResponse carries the failure detail of a rejected issuance.
type ErrorResponse struct {
	Error string `json:"error"`
}

// API is the certificate issuance RESTful interface.
type API struct {
	issuer *Issuer
}

// Builder is a builder helper for the API
type Builder struct {
	// DB is a postgres database. Mandatory unless Ledger is set.
	DB *csql.DB
	// Ledger overrides the postgres ledger built from DB. Optional.
	Ledger Ledger
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Engine renders certificate markup into PDF documents. This is mandatory.
	Engine pdf.Engine
	// Store is the object storage driver certificates are published with.
	// This is mandatory.
	Store store.Driver
	// ExportTimeout bounds the PDF export. Optional, the default is
	// pdf.DefaultTimeout.
	ExportTimeout time.Duration
}

// MustNewIssuer builds the issuance pipeline from b. It panics when a
// mandatory field is missing, or when the ledger relation cannot be created.
func MustNewIssuer(b *Builder) *Issuer {
	ledger := b.Ledger
	if ledger == nil {
		if b.DB == nil {
			panic("DB is missing")
		}
		ledger = MustNewPostgresLedger(b.DB)
	}

	if b.Engine == nil {
		panic("Engine is missing")
	}

	if b.Store == nil {
		panic("Store is missing")
	}

	renderer, err := NewRenderer()
	if err != nil {
		panic(err)
	}

	return &Issuer{
		ledger:   ledger,
		renderer: renderer,
		exporter: pdf.NewExporter(b.Engine, b.ExportTimeout),
		store:    b.Store,
		now:      time.Now,
	}
}

// NewAPI realizes the certificate service. It creates the sql relation for
// the issuance ledger (if it does not exist) and adds the /certificates route
// to the router.
func NewAPI(b *Builder) *API {
	if b.Router == nil {
		panic("Router is missing")
	}
	s := &API{issuer: MustNewIssuer(b)}
	s.handleRoutes(b.Router)
	return s
}

func (s *API) handleRoutes(router *mux.Router) {
	logger.Default().Infoln("certificate: handle route /certificates POST")
	router.HandleFunc("/certificates", s.create).Methods(http.MethodPost)
}

func (s *API) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rlog := logger.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, newError(KindMalformedRequest, err))
		return
	}

	req, err := DecodeRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}

	issuance, err := s.issuer.Issue(ctx, req)
	if err != nil {
		rlog.WithError(err).Errorln("issuance failed for ", req.ID)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(Response{
		Message: "Certificate created successfully.",
		URL:     issuance.URL,
	})
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

// HTTPStatus maps an issuance failure to a response status code: client
// errors for malformed requests, gateway errors for failing collaborators,
// and an internal error for everything else.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMalformedRequest:
		return http.StatusBadRequest
	case KindLedgerUnavailable, KindPublish:
		return http.StatusBadGateway
	case KindExportTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
