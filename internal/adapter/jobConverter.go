package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/api"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
		IngestResult:        ToIngestResult(job),
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Citations) == 0 {
		return nil
	}

	return &api.RAGResponse{
		Question:  ragData.Question,
		Answer:    ragData.Answer,
		Citations: ToCitationResponses(ragData.Citations),
		Themes:    ragData.Themes,
	}
}

func ToCitationResponses(citations []commonModels.Citation) []api.CitationResponse {
	out := make([]api.CitationResponse, 0, len(citations))
	for _, c := range citations {
		out = append(out, api.CitationResponse{
			Document:   c.DocumentName,
			Page:       c.Page,
			ChunkOrder: c.ChunkOrder,
			ChunkId:    c.ChunkId,
		})
	}
	return out
}

func ToIngestResult(job jobModel.Job) *api.IngestResult {
	if job.JobType != jobModel.JobTypeIngest || job.Status != jobModel.JobStatusComplete {
		return nil
	}
	return &api.IngestResult{
		DocumentId:    job.JobPayload.IngestDocId,
		DocumentName:  job.JobPayload.IngestFileName,
		ChunksIndexed: job.JobPayload.ChunksIndexed,
	}
}

func ToDocumentList(docs []commonModels.Document, count int64, limit int64) api.DocumentListResponse {
	infos := make([]api.DocumentInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, api.DocumentInfo{
			Id:          d.Id,
			Name:        d.Name,
			SizeBytes:   d.SizeBytes,
			ContentType: string(d.ContentType),
			UploadedAt:  d.UploadedAt,
		})
	}
	return api.DocumentListResponse{Documents: infos, Count: count, Limit: limit}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		ChatId:    "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status:              string(api.JobStatusError),
			RAGExternalResponse: ToRAGExternalStatus(jobModel.JobPayload{}),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
