// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"campusvote/cliparse"
	"campusvote/election"
	"campusvote/importer"
	"campusvote/middleware"
	"campusvote/models"
)

type VoterHandler struct {
	svc *election.Service
	cfg cliparse.Config
}

func NewVoterHandler(svc *election.Service, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{svc: svc, cfg: cfg}
}

// Create handles POST /voters (admin only)
func (h *VoterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AcademicYear == "" {
		req.AcademicYear = h.cfg.AcademicYear
	}

	voter, err := h.svc.CreateVoter(req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("voter created", "voter_id", voter.ID, "username", voter.Username)
	middleware.JSONResponse(w, http.StatusCreated, voter)
}

// List handles GET /voters (admin only)
// Returns the roster for the configured academic year.
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("academic_year")
	if year == "" {
		year = h.cfg.AcademicYear
	}

	voters, err := h.svc.ListVoters(year)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// Get handles GET /voters/{id}
// Voters may fetch themselves; admins may fetch anyone.
func (h *VoterHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)
	id := r.PathValue("id")

	if !principal.IsAdmin && principal.VoterID != id {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not permitted")
		return
	}

	voter, err := h.svc.GetVoter(id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voter)
}

// Update handles PATCH /voters/{id} (admin only)
func (h *VoterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.UpdateVoter(id, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("voter updated", "voter_id", voter.ID)
	middleware.JSONResponse(w, http.StatusOK, voter)
}

// Delete handles DELETE /voters/{id} (admin only)
func (h *VoterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.DeleteVoter(id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("voter deleted", "voter_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Voter deleted"})
}

// Import handles POST /voters/import (admin only)
// Accepts a CSV roster, either as a multipart "file" field or as the raw
// request body.
func (h *VoterHandler) Import(w http.ResponseWriter, r *http.Request) {
	var reader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()
		reader = file
	}

	summary, err := importer.ImportVoters(h.svc, slog.Default(), reader)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportSummaryResponse{
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
		Message: fmt.Sprintf("Imported %s voters (%s created, %s updated, %s skipped)",
			humanize.Comma(int64(summary.Created+summary.Updated)),
			humanize.Comma(int64(summary.Created)),
			humanize.Comma(int64(summary.Updated)),
			humanize.Comma(int64(summary.Skipped))),
	})
}

// Export handles GET /voters/export (admin only)
// Streams the roster for the configured academic year as CSV.
func (h *VoterHandler) Export(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("academic_year")
	if year == "" {
		year = h.cfg.AcademicYear
	}

	voters, err := h.svc.ListVoters(year)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="voters.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"reg_number", "name", "username", "academic_year", "class", "program", "activities", "sport_type"})
	for _, v := range voters {
		sport := ""
		if v.SportType != nil {
			sport = *v.SportType
		}
		cw.Write([]string{
			v.RegNumber,
			v.Name,
			v.Username,
			v.AcademicYear,
			models.ClassLabel(v.ClassYear),
			models.ProgramLabel(v.Program),
			strings.Join(v.Activities, ","),
			sport,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write voter export", "error", err)
	}
}
