package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"digesto/internal/config"
	"digesto/internal/http/handlers/audit"
	"digesto/internal/http/handlers/catalogs"
	"digesto/internal/http/handlers/documents"
	"digesto/internal/http/handlers/session"
	"digesto/internal/http/handlers/users"
	"digesto/internal/http/middleware"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	documentService DocumentService,
	catalogService CatalogService,
	userService UserService,
	authService AuthService,
	auditService AuditService,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, documentService, catalogService, userService, authService, auditService)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	doc DocumentService,
	cat CatalogService,
	us UserService,
	auth AuthService,
	aud AuditService,
) {
	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := mux.Vars(r)["token"]
		session.Delete(ctx, log, w, r, token, auth)
	}).Methods(http.MethodDelete)

	// Public reads: the registry is consultable without an account.

	// GET documents
	r.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		documents.Search(ctx, log, w, r, doc)
	}).Methods(http.MethodGet)

	// GET document by id
	r.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := mux.Vars(r)["id"]
		documents.GetByID(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodGet)

	// GET attachment content
	r.HandleFunc("/api/attachments/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attID := mux.Vars(r)["id"]
		documents.DownloadAttachment(ctx, log, w, r, attID, doc)
	}).Methods(http.MethodGet)

	// GET catalog
	r.HandleFunc("/api/catalogs/{kind}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		kind := mux.Vars(r)["kind"]
		catalogs.List(ctx, log, w, r, kind, cat)
	}).Methods(http.MethodGet)

	// GET catalog entry
	r.HandleFunc("/api/catalogs/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		catalogs.Get(ctx, log, w, r, vars["kind"], vars["id"], cat)
	}).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, auth))

	// POST document
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		documents.Create(ctx, log, w, r, doc)
	}).Methods(http.MethodPost)

	// PUT document
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := mux.Vars(r)["id"]
		documents.Update(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodPut)

	// DELETE document
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := mux.Vars(r)["id"]
		documents.Delete(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodDelete)

	// POST attachments
	protected.HandleFunc("/api/documents/{id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := mux.Vars(r)["id"]
		documents.UploadAttachments(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodPost)

	// DELETE attachment
	protected.HandleFunc("/api/attachments/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attID := mux.Vars(r)["id"]
		documents.DeleteAttachment(ctx, log, w, r, attID, doc)
	}).Methods(http.MethodDelete)

	// POST catalog entry
	protected.HandleFunc("/api/catalogs/{kind}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		kind := mux.Vars(r)["kind"]
		catalogs.Create(ctx, log, w, r, kind, cat)
	}).Methods(http.MethodPost)

	// PUT catalog entry
	protected.HandleFunc("/api/catalogs/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		catalogs.Update(ctx, log, w, r, vars["kind"], vars["id"], cat)
	}).Methods(http.MethodPut)

	// DELETE catalog entry
	protected.HandleFunc("/api/catalogs/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		catalogs.Delete(ctx, log, w, r, vars["kind"], vars["id"], cat)
	}).Methods(http.MethodDelete)

	// POST user
	protected.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		users.Register(ctx, log, w, r, us)
	}).Methods(http.MethodPost)

	// GET user
	protected.HandleFunc("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := mux.Vars(r)["id"]
		users.Get(ctx, log, w, r, userID, us)
	}).Methods(http.MethodGet)

	// PUT user
	protected.HandleFunc("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := mux.Vars(r)["id"]
		users.Modify(ctx, log, w, r, userID, us)
	}).Methods(http.MethodPut)

	// POST user deactivation
	protected.HandleFunc("/api/users/{id}/deactivate", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := mux.Vars(r)["id"]
		users.Deactivate(ctx, log, w, r, userID, us)
	}).Methods(http.MethodPost)

	// DELETE user
	protected.HandleFunc("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := mux.Vars(r)["id"]
		users.Delete(ctx, log, w, r, userID, us)
	}).Methods(http.MethodDelete)

	// GET audit trail
	protected.HandleFunc("/api/audit", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		audit.List(ctx, log, w, r, aud)
	}).Methods(http.MethodGet)

	// GET document audit trail
	protected.HandleFunc("/api/audit/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := mux.Vars(r)["id"]
		audit.ByDocument(ctx, log, w, r, docID, aud)
	}).Methods(http.MethodGet)

	// GET user audit trail
	protected.HandleFunc("/api/audit/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := mux.Vars(r)["id"]
		audit.ByUser(ctx, log, w, r, userID, aud)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
