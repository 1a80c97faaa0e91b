package dto

type UploadImageResponse struct {
	Path             string `json:"path"`
	MimeType         string `json:"mime_type"`
	Summary          string `json:"summary"`
	RemainingCredits int    `json:"remaining_credits"`
}
