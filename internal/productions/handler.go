package productions

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/handlers"
	"github.com/whitfield-io/batesd/pkg/pagination"
	"github.com/whitfield-io/batesd/pkg/routes"
)

// Handler provides HTTP endpoints for production operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "productions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for production endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/productions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/ranges", Handler: h.ListRanges},
			{Method: "GET", Pattern: "/conflicts", Handler: h.Conflicts},
			{Method: "GET", Pattern: "/suggest", Handler: h.Suggest},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/output", Handler: h.Output},
			{Method: "GET", Pattern: "/{id}/mapping", Handler: h.Mapping},
			{Method: "GET", Pattern: "/{id}/ranges", Handler: h.Ranges},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/ranges", Handler: h.AddRange},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/run", Handler: h.Run},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of productions with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single production by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	prod, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prod)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching productions.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create registers a new production from a JSON body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	prod, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, prod)
}

// Run executes a production against the documents named in the JSON body.
// The request context carries cancellation into the stamping loop, so a
// closed connection aborts the run.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var cmd RunCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Run(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Output streams the assembled production PDF as an attachment.
func (h *Handler) Output(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	prod, dl, err := h.sys.Output(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	if dl.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", prod.Name+".pdf"),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, dl.Body)
}

// Mapping returns the production's mapping report. The format query
// parameter selects csv (default), json, or pdf.
func (h *Handler) Mapping(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	data, contentType, err := h.sys.Mapping(r.Context(), id, format)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Ranges returns the numbering ranges consumed by one production.
func (h *Handler) Ranges(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	ranges, err := h.sys.Ranges(r.Context(), &id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ranges)
}

// ListRanges returns every persisted numbering range.
func (h *Handler) ListRanges(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.sys.Ranges(r.Context(), nil)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ranges)
}

// AddRange registers an externally produced range for conflict validation.
func (h *Handler) AddRange(w http.ResponseWriter, r *http.Request) {
	var cmd RangeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	stored, err := h.sys.AddRange(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, stored)
}

// Conflicts validates all persisted ranges and returns the findings.
func (h *Handler) Conflicts(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.Conflicts(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Suggest returns the first free range for the numbering space named by
// the prefix, suffix, and page_count query parameters.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	pageCount, err := strconv.Atoi(r.URL.Query().Get("page_count"))
	if err != nil || pageCount < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: page_count required", ErrInvalidRequest))
		return
	}

	suggestion, err := h.sys.SuggestNext(
		r.Context(),
		r.URL.Query().Get("prefix"),
		r.URL.Query().Get("suffix"),
		pageCount,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, suggestion)
}

// Delete removes a production and its persisted ranges.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}
