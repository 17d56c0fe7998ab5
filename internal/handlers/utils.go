package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/DocQueryAPI/internal/adapter"
	"github.com/akolanti/DocQueryAPI/internal/adapter/utils"
	"github.com/akolanti/DocQueryAPI/internal/api"
	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
)

type uploadedDoc struct {
	id   string
	name string
	path string
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", "err", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, config.UploadsDirName)
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

func processNewJobData(request *http.Request, w http.ResponseWriter, requestData api.ChatRequest, doc uploadedDoc) {
	chatID := ""
	message := ""
	isNewChat := false

	//if no uploaded document then it's a chat request
	isChatRequest := doc.path == ""

	if isChatRequest {
		chatID = requestData.ChatID
		if chatID == "" {
			chatID = utils.GetNewUUID()
			logRH.Debug("New Chat request :", "chatID:", chatID)
			isNewChat = true
		}
		message = requestData.Message
	}

	newJob := newJobData{
		id:               utils.GetNewUUID(),
		chatId:           chatID,
		message:          message,
		isNewChat:        isNewChat,
		traceId:          request.Context().Value(config.TRACE_ID_KEY).(string),
		documentId:       doc.id,
		documentName:     doc.name,
		documentSource:   doc.path,
		isDocumentIngest: !isChatRequest,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)

}
