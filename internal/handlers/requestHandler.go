package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/adapter"
	"github.com/akolanti/DocQueryAPI/internal/adapter/utils"
	"github.com/akolanti/DocQueryAPI/internal/api"
	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/metrics"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id               string
	chatId           string
	message          string
	isNewChat        bool
	traceId          string
	isDocumentIngest bool
	documentId       string
	documentName     string
	documentSource   string
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".docx": true,
	".rtf":  true,
	".odt":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// HealthHandler godoc
// @Summary      Health check
// @Tags         Ops
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "healthy", Version: "1.0.0"})
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat Message and optional Chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", "err", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {

			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}
		processNewJobData(request, w, requestData, uploadedDoc{})
		return
	}
	logRH.Warn("Invalid Context by request ", "remoteAddr", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// ListDocumentsHandler godoc
// @Summary      List registered documents
// @Tags         Ingestion
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	registry := handlerInstance.service.DocRegistry
	docs, err := registry.ListDocuments(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Registry error")
		return
	}
	count, _ := registry.DocumentCount(r.Context())
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs, count, config.MaxDocuments()))
}

// PostUploadHandler handles uploads of PDF, DOCX, TXT or image documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, registers the document, saves the file to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF, DOCX, TXT or image file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - unsupported format or missing fields"
// @Failure      409  {object}  api.JobResponse "Document limit reached"
// @Failure      413  {object}  api.JobResponse "File exceeds the upload size limit"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /upload [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		maxUploadSize := config.MaxUploadSize()
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		//get the document the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		ext := strings.ToLower(filepath.Ext(fileMetadata.Filename))
		if !allowedExtensions[ext] {
			logRH.Warn("Unsupported upload format", "ext", ext, "file", fileMetadata.Filename)
			WriteErrorResponse(w, http.StatusBadRequest, docName, commonModels.ErrUnsupportedFormat.Error())
			return
		}

		//register before writing anything so the MAX_DOCUMENTS cap holds
		doc := commonModels.Document{
			Id:          utils.GetNewUUID(),
			Name:        docName,
			SizeBytes:   fileMetadata.Size,
			UploadedAt:  time.Now(),
			ContentType: docTypeForExtension(ext),
		}
		if err := handlerInstance.service.DocRegistry.TryRegister(r.Context(), doc); err != nil {
			if errors.Is(err, commonModels.ErrDocumentLimit) {
				WriteErrorResponse(w, http.StatusConflict, docName, "Document limit reached. Remove documents before uploading more")
				return
			}
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Registry error")
			return
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}

		metrics.IncrementDocumentsRegistered()
		processNewJobData(r, w, api.ChatRequest{}, uploadedDoc{id: doc.Id, name: docName, path: tempFilePath})
		return
	}
	logRH.Warn("Invalid Context by request ", "remoteAddr", r.RemoteAddr)
}

func docTypeForExtension(ext string) commonModels.DocType {
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".txt":
		return commonModels.TXT
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	case ".png", ".jpg", ".jpeg":
		return commonModels.IMAGE
	default:
		return commonModels.ERR
	}
}
