package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/pafou/PLANDECH-back/internal/middleware"
)

// NewHandler wires the Connect procedures, the HTTP views, health and
// metrics endpoints behind request logging and CORS.
func NewHandler(svc *WorkloadService, allowedOrigins []string) http.Handler {
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(middleware.RPCLogging()),
	}

	r := mux.NewRouter()
	r.Handle(ImportWorkloadProcedure, connect.NewUnaryHandler(ImportWorkloadProcedure, svc.ImportWorkload, opts...))
	r.Handle(AddLineProcedure, connect.NewUnaryHandler(AddLineProcedure, svc.AddLine, opts...))
	r.Handle(AddLineByIDProcedure, connect.NewUnaryHandler(AddLineByIDProcedure, svc.AddLineByID, opts...))
	r.Handle(SubmitLoadProcedure, connect.NewUnaryHandler(SubmitLoadProcedure, svc.SubmitLoad, opts...))
	r.Handle(UpdateCommentProcedure, connect.NewUnaryHandler(UpdateCommentProcedure, svc.UpdateComment, opts...))
	r.Handle(GetPivotProcedure, connect.NewUnaryHandler(GetPivotProcedure, svc.GetPivot, opts...))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/list_all", svc.ListAll).Methods(http.MethodGet)
	api.HandleFunc("/workload/export.xlsx", svc.ExportXLSX).Methods(http.MethodGet)
	api.HandleFunc("/workload/import.xlsx", svc.ImportXLSX).Methods(http.MethodPost)

	r.HandleFunc("/healthz", svc.Healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.RequestIDHeader},
	})

	return middleware.Logging(c.Handler(r))
}
