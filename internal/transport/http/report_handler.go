// Package http contains the operator-facing HTTP handlers. The surface is
// deliberately small: one upload that previews a run, one upload that
// downloads the rendered document, and a health probe. Each request is one
// isolated pipeline run; nothing persists between requests.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/ingest"
	"retailpulse/internal/pipeline"
	"retailpulse/internal/report"
	"retailpulse/pkg/contracts/domain"
)

// uploadField is the multipart form field carrying the sales export.
const uploadField = "file"

// ReportHandler handles report generation requests
type ReportHandler struct {
	loader      *ingest.Loader
	runner      *pipeline.Runner
	builder     *report.Builder
	validate    *validator.Validate
	logger      *slog.Logger
	maxUpload   int64
	previewRows int
}

// NewReportHandler creates a report handler.
func NewReportHandler(
	loader *ingest.Loader,
	runner *pipeline.Runner,
	builder *report.Builder,
	logger *slog.Logger,
	maxUpload int64,
	previewRows int,
) *ReportHandler {
	return &ReportHandler{
		loader:      loader,
		runner:      runner,
		builder:     builder,
		validate:    validator.New(),
		logger:      logger.With(slog.String("component", "report_handler")),
		maxUpload:   maxUpload,
		previewRows: previewRows,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/preview", h.Preview)
	r.Post("/download", h.Download)
	return r
}

// PreviewResponse is the JSON payload for a successful preview run.
type PreviewResponse struct {
	Success bool                    `json:"success"`
	Summary domain.Summary          `json:"summary"`
	Tail    []domain.EnrichedRecord `json:"tail"`
}

// Preview handles POST /api/report/preview: runs the pipeline over the
// upload and returns the summary plus the tail of the processed table.
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	result, _, apiErr := h.process(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	render.JSON(w, r, PreviewResponse{
		Success: true,
		Summary: result.Summary,
		Tail:    result.Tail(h.previewRows),
	})
}

// Download handles POST /api/report/download: runs the pipeline over the
// upload and streams back the standalone dashboard document.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	result, opts, apiErr := h.process(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	doc, err := h.builder.Build(result, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DocumentName))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// process runs the shared upload→pipeline path of both endpoints and maps
// failures onto the API error taxonomy. All pipeline failures surface as one
// consolidated message; internals stay in the logs.
func (h *ReportHandler) process(r *http.Request) (*domain.Result, domain.ReportOptions, *apierrors.APIError) {
	ctx := r.Context()

	file, header, opts, apiErr := h.parseUpload(r)
	if apiErr != nil {
		return nil, domain.ReportOptions{}, apiErr
	}
	defer file.Close()

	table, err := h.loader.LoadReader(file, header.Filename)
	if err != nil {
		h.logger.WarnContext(ctx, "upload not readable as tabular data",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		return nil, domain.ReportOptions{}, apierrors.UnreadableUploadError(err)
	}

	result, err := h.runner.Run(ctx, table)
	if err != nil {
		h.logger.WarnContext(ctx, "pipeline run failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		switch {
		case errors.Is(err, pipeline.ErrInvalidAmount), errors.Is(err, pipeline.ErrMissingColumn):
			return nil, domain.ReportOptions{}, apierrors.ErrPipelineExecution(err)
		default:
			return nil, domain.ReportOptions{}, apierrors.ErrInternalServer
		}
	}

	return result, opts, nil
}

// parseUpload extracts the uploaded file and the validated report options
// from the multipart form.
func (h *ReportHandler) parseUpload(r *http.Request) (multipart.File, *multipart.FileHeader, domain.ReportOptions, *apierrors.APIError) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, nil, domain.ReportOptions{}, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, nil, domain.ReportOptions{}, apierrors.ErrMissingUpload
	}

	opts := domain.ReportOptions{
		Title:           r.FormValue("title"),
		DefaultCurrency: r.FormValue("currency"),
	}
	if err := h.validate.Struct(opts); err != nil {
		file.Close()
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]apierrors.ValidationError, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				})
			}
			return nil, nil, domain.ReportOptions{}, apierrors.NewValidationErrors(details)
		}
		return nil, nil, domain.ReportOptions{}, apierrors.ErrValidationFailed
	}

	return file, header, opts, nil
}
