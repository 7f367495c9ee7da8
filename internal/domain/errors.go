package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrNoSourceImage      = errors.New("no source image")
	ErrInvalidTransition  = errors.New("invalid stage transition")
	ErrGenerationInFlight = errors.New("generation already in flight")
	ErrStoreFailure       = errors.New("blob store failure")
	ErrTransformFailure   = errors.New("transformer failure")
	ErrExportFailure      = errors.New("export failure")
)
