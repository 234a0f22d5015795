package models

import (
	"errors"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

type Photo struct {
	BaseModel

	URL          string `db:"public_url" json:"url"`
	FilePath     string `db:"file_path" json:"file_path"`
	Caption      string `db:"caption" json:"caption"`
	MimeType     string `db:"mime_type" json:"mime_type,omitempty"`
	SizeBytes    int64  `db:"size_bytes" json:"size_bytes,omitempty"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

type RegisterPhotoRequest struct {
	PublicURL      string `json:"public_url"`
	FilePath       string `json:"file_path"`
	Caption        string `json:"caption"`
	MimeType       string `json:"mime_type"`
	SizeBytes      int64  `json:"size_bytes"`
	CoupleConfigID *uint  `json:"couple_config_id,omitempty"`
}

type UpdateCaptionRequest struct {
	ID      uint   `json:"id"`
	Caption string `json:"caption"`
}
