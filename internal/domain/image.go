package domain

// SourceImage is the validated user-supplied photo awaiting transformation.
// It is owned exclusively by the workflow session: created on successful
// validation, replaced on re-upload, cleared on Reset.
type SourceImage struct {
	Filename  string
	MIME      string
	Data      []byte
	Size      int64
	PreviewID string
}
