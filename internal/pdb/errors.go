package pdb

import "errors"

// Error taxonomy for file-level failures. Row-level anomalies are absorbed
// (short rows are skipped, bad strings decode empty) rather than surfaced.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrCorruptedData     = errors.New("corrupted data")
	ErrIO                = errors.New("i/o error")
	ErrInvalidParameter  = errors.New("invalid parameter")
)
