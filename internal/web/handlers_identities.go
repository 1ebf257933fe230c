package web

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

// handleListIdentities returns every registered identity.
func (s *Server) handleListIdentities(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListIdentities(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ids)
}

// handleRegisterIdentity registers one identity from a JSON or form body.
func (s *Server) handleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := s.store.RegisterIdentity(r.Context(), sub.Name, sub.Email); err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, core.Identity{
		Name:  strings.TrimSpace(sub.Name),
		Email: strings.TrimSpace(sub.Email),
	})
}

// handleClearIdentities deletes every identity. Requires confirm=true.
func (s *Server) handleClearIdentities(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		fail(w, r, errConfirmationRequired)
		return
	}
	if err := s.store.ClearIdentities(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportIdentities downloads the identities as registered_users.csv.
func (s *Server) handleExportIdentities(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.ExportIdentities(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeExport(w, r, exp)
}

// handleImportIdentities registers the valid rows of an uploaded CSV.
func (s *Server) handleImportIdentities(w http.ResponseWriter, r *http.Request) {
	s.serveImport(w, r, s.store.ImportIdentities)
}

// handlePreviewImport reports what an import of the uploaded CSV would do.
func (s *Server) handlePreviewImport(w http.ResponseWriter, r *http.Request) {
	s.serveImport(w, r, s.store.PreviewImport)
}

type importFunc func(ctx context.Context, text string) (core.ImportResult, error)

func (s *Server) serveImport(w http.ResponseWriter, r *http.Request, run importFunc) {
	text, err := readImport(w, r, s.cfg.Import.MaxFileSize)
	if err != nil {
		fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	result, err := run(ctx, text)
	if err != nil {
		if result.ImportID != "" {
			// Rows accepted before the interruption were kept.
			logging.FromContext(r.Context()).Warn("import interrupted",
				"import_id", result.ImportID,
				"registered", result.RegisteredCount,
				"skipped", result.SkippedCount,
			)
		}
		if errors.Is(err, core.ErrTooManyImports) {
			w.Header().Set("Retry-After", "5")
		}
		fail(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// writeExport sends a CSV download.
func writeExport(w http.ResponseWriter, r *http.Request, exp core.Export) {
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	if _, err := io.WriteString(w, exp.Content); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "filename", exp.Filename, "error", err)
	}
}
