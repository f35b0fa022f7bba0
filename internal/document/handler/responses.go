package handler

import (
	"time"

	documentmodels "trustnest/internal/document/models"
	documentservice "trustnest/internal/document/service"
)

type documentResponse struct {
	ID         string `json:"id"`
	Type       string `json:"document_type"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	Review     string `json:"review_state"`
	UploadedAt string `json:"uploaded_at"`
}

func toDocumentResponse(d *documentmodels.Document) documentResponse {
	return documentResponse{
		ID:         d.ID.String(),
		Type:       string(d.Type),
		MimeType:   d.MimeType,
		Size:       d.Size,
		Review:     string(d.Review),
		UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
	}
}

type uploadResponse struct {
	Document documentResponse `json:"document"`
	URL      string           `json:"url"`
}

func toUploadResponse(r *documentservice.UploadResult) uploadResponse {
	return uploadResponse{
		Document: toDocumentResponse(r.Document),
		URL:      r.URL,
	}
}

type listResponse struct {
	Documents []documentResponse `json:"documents"`
}

func toListResponse(docs []*documentmodels.Document) listResponse {
	out := listResponse{Documents: make([]documentResponse, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, toDocumentResponse(d))
	}
	return out
}
