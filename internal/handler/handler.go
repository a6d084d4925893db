package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Vivekb638/Real-Time-Churn-Prediction-System/docs"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/dto"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/metrics"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/service"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/upload"
)

// Error codes returned in dto.ErrorResponse
const (
	codeValidation      = "validation_error"
	codeUploadFormat    = "upload_format_error"
	codeSchema          = "schema_error"
	codeClassifier      = "classifier_error"
	codeHistoryDisabled = "history_disabled"
	codeInternal        = "internal_error"
)

const uploadField = "file"

// multipartOverhead is the allowance for multipart framing on top of the file itself
const multipartOverhead int64 = 1 << 20

type Handler struct {
	predictionService service.PredictionServicer
	reportService     service.ReportServicer
	metrics           *metrics.Metrics
	maxUploadBytes    int64
	router            *gin.Engine
	log               *zap.Logger
}

func NewHandler(
	predictionService service.PredictionServicer,
	reportService service.ReportServicer,
	m *metrics.Metrics,
	maxUploadBytes int64,
	log *zap.Logger,
) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = upload.DefaultMaxBytes
	}

	h := &Handler{
		predictionService: predictionService,
		reportService:     reportService,
		metrics:           m,
		maxUploadBytes:    maxUploadBytes,
		router:            gin.Default(),
		log:               log,
	}

	h.router.MaxMultipartMemory = maxUploadBytes
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.root)
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/predict", h.predict)
	h.router.POST("/predict/batch", h.predictBatch)
	h.router.POST("/predict-batch", h.predictBatch)
	h.router.GET("/predictions/summary", h.getHistorySummary)
	h.router.POST("/report", h.generateReport)
	if h.metrics != nil {
		h.router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// root handles liveness requests
// @Summary Liveness
// @Description Check that the API process is up
// @Tags health
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router / [get]
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "API is running"})
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running and report the loaded model
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:       "ok",
		ModelVersion: h.predictionService.ModelVersion(),
	})
}

// predict handles POST /predict
// @Summary Predict churn for one customer
// @Description Score a single customer record and classify its churn risk
// @Tags predictions
// @Accept json
// @Produce json
// @Param customer body object true "Customer record keyed by column name"
// @Success 200 {object} dto.PredictResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predict [post]
func (h *Handler) predict(c *gin.Context) {
	var req dto.CustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid prediction request", zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeValidation, err)
		return
	}

	response, err := h.predictionService.Predict(c.Request.Context(), req.RawRecord())
	if err != nil {
		h.handleServiceError(c, "Failed to predict churn", err)
		return
	}

	h.log.Info("Prediction served",
		zap.String("customer_id", response.CustomerID),
		zap.String("risk_level", response.RiskLevel.String()),
		zap.Bool("cached", response.Cached))

	c.JSON(http.StatusOK, response)
}

// predictBatch handles POST /predict/batch
// @Summary Predict churn for an uploaded dataset
// @Description Score every row of a CSV or XLSX upload and aggregate revenue at risk per segment
// @Tags predictions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Customer dataset (.csv or .xlsx)"
// @Success 200 {object} dto.BatchPredictResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predict/batch [post]
func (h *Handler) predictBatch(c *gin.Context) {
	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.rejectOversizeUpload(c, limit)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.rejectOversizeUpload(c, limit)
			return
		}
		h.log.Warn("Batch request without upload", zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeValidation, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		h.writeError(c, http.StatusInternalServerError, codeInternal, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.log.Error("Failed to close uploaded file", zap.Error(err))
		}
	}()

	table, err := upload.Parse(fileHeader.Filename, file, h.maxUploadBytes)
	if err != nil {
		h.metrics.ObserveFailure(domain.ModeBatch, metrics.ReasonUpload)
		h.handleServiceError(c, "Failed to parse upload", err)
		return
	}

	response, err := h.predictionService.PredictBatch(c.Request.Context(), table)
	if err != nil {
		h.handleServiceError(c, "Failed to score batch", err)
		return
	}

	h.log.Info("Batch prediction served",
		zap.String("batch_id", response.BatchID),
		zap.String("filename", fileHeader.Filename),
		zap.Int("total_rows", response.TotalRows))

	c.JSON(http.StatusOK, response)
}

func (h *Handler) rejectOversizeUpload(c *gin.Context, limit int64) {
	h.metrics.ObserveFailure(domain.ModeBatch, metrics.ReasonUpload)
	h.log.Warn("Batch upload exceeds size limit",
		zap.Int64("content_length", c.Request.ContentLength),
		zap.Int64("limit", limit))
	h.writeError(c, http.StatusRequestEntityTooLarge, codeUploadFormat,
		fmt.Errorf("%w: request body exceeds %d bytes", upload.ErrTooLarge, limit))
}

// getHistorySummary handles GET /predictions/summary
// @Summary Get prediction history
// @Description Retrieve aggregated prediction history with optional grouping by tier, day, or contract
// @Tags history
// @Produce json
// @Param from query int true "Start timestamp (Unix epoch)" example:"1766016000"
// @Param to query int true "End timestamp (Unix epoch)" example:"1766620800"
// @Param group_by query string false "Field to group by (tier, day, contract)" Enums(tier, day, contract) example:"tier"
// @Success 200 {object} dto.HistorySummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/summary [get]
func (h *Handler) getHistorySummary(c *gin.Context) {
	var req dto.HistorySummaryRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid history request", zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeValidation, err)
		return
	}

	response, err := h.predictionService.GetHistorySummary(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, "Failed to get prediction history", err)
		return
	}

	h.log.Info("Prediction history retrieved",
		zap.Int64("from", req.From),
		zap.Int64("to", req.To),
		zap.Uint64("total_count", response.TotalCount))

	c.JSON(http.StatusOK, response)
}

// generateReport handles POST /report
// @Summary Generate a PDF report
// @Description Render the risk summary of a batch into a downloadable PDF
// @Tags reports
// @Accept json
// @Produce application/pdf
// @Param report body dto.ReportRequest true "Company details and batch summary"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /report [post]
func (h *Handler) generateReport(c *gin.Context) {
	var req dto.ReportRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid report request", zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeValidation, err)
		return
	}

	pdf, err := h.reportService.GenerateReport(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, "Failed to generate report", err)
		return
	}

	h.log.Info("Report generated",
		zap.String("company", req.Company.Name),
		zap.Int("bytes", len(pdf)))

	c.Header("Content-Disposition", `attachment; filename="churn_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// handleServiceError maps domain and service errors to HTTP responses
func (h *Handler) handleServiceError(c *gin.Context, msg string, err error) {
	var (
		schemaErr     *domain.SchemaError
		uploadErr     *domain.UploadFormatError
		classifierErr *domain.ClassifierError
	)

	switch {
	case errors.As(err, &schemaErr):
		h.log.Warn(msg, zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:          codeSchema,
			Message:        err.Error(),
			MissingColumns: schemaErr.Missing,
		})
	case errors.As(err, &uploadErr):
		h.log.Warn(msg, zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeUploadFormat, err)
	case errors.Is(err, service.ErrInvalidRequest):
		h.log.Warn(msg, zap.Error(err))
		h.writeError(c, http.StatusBadRequest, codeValidation, err)
	case errors.Is(err, service.ErrHistoryDisabled):
		h.log.Warn(msg, zap.Error(err))
		h.writeError(c, http.StatusServiceUnavailable, codeHistoryDisabled, err)
	case errors.As(err, &classifierErr):
		h.log.Error(msg, zap.Error(err))
		h.writeError(c, http.StatusBadGateway, codeClassifier, err)
	default:
		h.log.Error(msg, zap.Error(err))
		h.writeError(c, http.StatusInternalServerError, codeInternal, err)
	}
}

func (h *Handler) writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
