package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rcastellanos/InvoiceRAG/internal/adapter"
	"github.com/rcastellanos/InvoiceRAG/internal/adapter/utils"
	"github.com/rcastellanos/InvoiceRAG/internal/api"
	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/internal/files"
	"github.com/rcastellanos/InvoiceRAG/internal/rag"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

// FileHandler owns the spreadsheet ingestion endpoints. Dependencies are
// injected once at startup, no package level service state.
type FileHandler struct {
	ragService rag.Service
	datasets   invoiceModel.DatasetStore
	logger     *logger_i.Logger
}

func NewFileHandler(ragService rag.Service, datasets invoiceModel.DatasetStore) *FileHandler {
	return &FileHandler{
		ragService: ragService,
		datasets:   datasets,
		logger:     logger_i.NewLogger("File Handler"),
	}
}

var questionTemplates = []api.TemplateItem{
	{Id: "overall_summary", Title: "Overall Summary", Prompt: "Give me an overall summary of all invoices"},
	{Id: "top_clients", Title: "Top Clients", Prompt: "Which 5 clients generated the highest total amount?"},
	{Id: "compare_countries", Title: "Compare Countries", Prompt: "Compare the invoiced totals between countries"},
	{Id: "monthly_trend", Title: "Monthly Trend", Prompt: "Which months had the highest invoiced amounts?"},
	{Id: "client_detail", Title: "Analyze Client", Prompt: "What was the activity of a specific client during the period?"},
	{Id: "general_statistics", Title: "General Statistics", Prompt: "Show me the general statistics of the invoice data"},
}

// Upload godoc
// @Summary      Upload and index an invoice spreadsheet
// @Description  Receives a csv, xlsx or xls file, normalizes it and rebuilds the retrieval index from scratch.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The spreadsheet to index"
// @Success      200  {object}  api.UploadResponse  "File stored and index rebuilt"
// @Failure      400  {object}  api.ErrorResponse   "Unsupported file type or unreadable upload"
// @Failure      500  {object}  api.ErrorResponse   "Storage error"
// @Router       /upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	storedPath, table, originalName, ok := h.receiveSpreadsheet(w, r)
	if !ok {
		return
	}

	//later mapped processing always reads csv, so non-csv uploads get a
	//converted copy next to the processed artifacts
	processedPath := storedPath
	if strings.ToLower(filepath.Ext(storedPath)) != ".csv" {
		processedPath = filepath.Join(config.ProcessedDir, strings.TrimSuffix(filepath.Base(storedPath), filepath.Ext(storedPath))+".csv")
		if err := files.WriteCSV(processedPath, table); err != nil {
			h.logger.Error("Could not persist converted csv", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}
	}

	result, indexed := h.ragService.Rebuild(r.Context(), table)
	h.recordDataset(r, originalName, processedPath, table, result, indexed)

	message := "File processed and indexed successfully"
	if !indexed {
		message = "File stored but indexing failed, query responses will describe the error"
	}
	writeJsonResponse(w, http.StatusOK, api.UploadResponse{
		Status:   "success",
		Message:  message,
		FilePath: processedPath,
		Rows:     len(table.Rows),
		Columns:  table.Columns,
	})
}

// Root answers health probes and the ui's base path check.
func (h *FileHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AnalyzeFile godoc
// @Summary      Analyze a spreadsheet without indexing it
// @Description  Stores the file, suggests a column mapping for the four required fields and returns a data preview.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The spreadsheet to analyze"
// @Success      200  {object}  api.AnalyzeResponse  "Columns, suggested mappings and preview rows"
// @Failure      400  {object}  api.ErrorResponse    "Unsupported file type or unreadable upload"
// @Router       /analyze-file [post]
func (h *FileHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	storedPath, table, _, ok := h.receiveSpreadsheet(w, r)
	if !ok {
		return
	}

	writeJsonResponse(w, http.StatusOK, api.AnalyzeResponse{
		Status:            "success",
		Columns:           table.Columns,
		SuggestedMappings: files.SuggestMappings(table.Columns),
		PreviewData:       files.Preview(table, config.PreviewRows),
		FilePath:          storedPath,
	})
}

// ProcessMappedFile godoc
// @Summary      Index a previously analyzed file using an explicit column mapping
// @Description  Applies the caller supplied column mapping to a stored file, persists the mapped table as csv and rebuilds the index.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.ProcessMappedRequest  true  "Stored file path and field to column mapping"
// @Success      200  {object}  api.ProcessedResponse  "Mapped table indexed"
// @Failure      400  {object}  api.ErrorResponse      "Missing mappings or unreadable file"
// @Router       /process-mapped-file [post]
func (h *FileHandler) ProcessMappedFile(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.ProcessMappedRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("Couldn't close the request body :", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.FilePath == "" {
		h.logger.Warn("Bad mapped-file request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	table, err := files.LoadTable(requestData.FilePath)
	if err != nil {
		h.logger.Warn("Could not load stored file", "path", requestData.FilePath, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not read the stored file")
		return
	}

	mapped, missing := files.ApplyMapping(table, requestData.Mappings)
	if len(missing) > 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Missing required column mappings: "+strings.Join(missing, ", "))
		return
	}

	processedPath := filepath.Join(config.ProcessedDir, fmt.Sprintf("%d-mapped.csv", time.Now().UnixNano()))
	if err := files.WriteCSV(processedPath, mapped); err != nil {
		h.logger.Error("Could not persist mapped table", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	result, indexed := h.ragService.Rebuild(r.Context(), mapped)
	h.recordDataset(r, filepath.Base(requestData.FilePath), processedPath, mapped, result, indexed)

	message := "Mapped file processed and indexed successfully"
	if !indexed {
		message = "Mapped file stored but indexing failed, query responses will describe the error"
	}
	writeJsonResponse(w, http.StatusOK, api.ProcessedResponse{
		Status:  "success",
		Message: message,
		Rows:    len(mapped.Rows),
		Columns: mapped.Columns,
	})
}

// Templates godoc
// @Summary      Predefined example questions
// @Description  Returns the fixed list of question templates the chat interface offers.
// @Tags         Chat
// @Produce      json
// @Success      200  {array}  api.TemplateItem
// @Router       /templates [get]
func (h *FileHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, questionTemplates)
}

// LatestDataset godoc
// @Summary      Most recent ingestion record
// @Description  Returns the audit record of the last rebuild, including row counts and the live generation name.
// @Tags         Ingestion
// @Produce      json
// @Success      200  {object}  api.DatasetResponse
// @Failure      404  {object}  api.ErrorResponse  "Nothing has been ingested yet"
// @Router       /datasets/latest [get]
func (h *FileHandler) LatestDataset(w http.ResponseWriter, r *http.Request) {
	info, found := h.datasets.LatestDataset(r.Context())
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, "", "No dataset has been ingested yet")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDatasetResponse(info))
}

// receiveSpreadsheet pulls the multipart upload out of the request, rejects
// unsupported extensions before touching disk, stores the file and loads it
// into a table. On failure the response has already been written.
func (h *FileHandler) receiveSpreadsheet(w http.ResponseWriter, r *http.Request) (storedPath string, table invoiceModel.RawTable, originalName string, ok bool) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return "", invoiceModel.RawTable{}, "", false
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return "", invoiceModel.RawTable{}, "", false
	}
	defer fileReader.Close()

	if !files.ValidExtension(fileMetadata.Filename) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File type not allowed. Use csv, xlsx or xls")
		return "", invoiceModel.RawTable{}, "", false
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	storedPath, err = files.SaveUpload(config.UploadsDir, filename, fileReader)
	if err != nil {
		h.logger.Error("Could not store upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return "", invoiceModel.RawTable{}, "", false
	}

	table, err = files.LoadTable(storedPath)
	if err != nil {
		h.logger.Warn("Unreadable upload", "path", storedPath, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not parse the uploaded file")
		return "", invoiceModel.RawTable{}, "", false
	}
	return storedPath, table, fileMetadata.Filename, true
}

func (h *FileHandler) recordDataset(r *http.Request, fileName, storedPath string, table invoiceModel.RawTable, result invoiceModel.RebuildResult, indexed bool) {
	status := invoiceModel.DatasetStatusIndexed
	if !indexed {
		status = invoiceModel.DatasetStatusFailed
	}
	info := invoiceModel.DatasetInfo{
		Id:          utils.GetNewUUID(),
		FileName:    fileName,
		StoredPath:  storedPath,
		Columns:     table.Columns,
		RowsLoaded:  result.RowsLoaded,
		RowsIndexed: result.RowsValid,
		Generation:  result.Generation,
		Status:      status,
		CreatedTime: time.Now().UTC(),
	}
	if err := h.datasets.SaveDataset(r.Context(), info); err != nil {
		h.logger.Warn("Could not record dataset", "id", info.Id, "error", err)
	}
}
