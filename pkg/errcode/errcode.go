package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBGORMConnectionError
	DBAnalyzeError

	// Schema errors
	SchemaMigrateError

	// Repository errors
	RepoQueryError
	RepoInsertError
	RepoMultipleMatchesError
	RepoDeleteError
	RepoLabelsError
	RepoUnknownLabelError
	RepoImageOwnerError

	// Parquet source errors
	SourceOpenError
	SourceQueryError
	SourceDecodeError

	// HTTP errors
	HTTPLoginError
	HTTPRequestError
	HTTPStatusError
	HTTPRetryExhaustedError

	// Storage errors
	StorageClientError
	StorageBucketError
	StorageUploadError

	// Image errors
	ImageDecodeError
	ImageEncodeError

	// Import errors
	ImportDatasetError
	ImportTimeseriesError
	ImportImageError
	ImportCancelledError
	ImportRangeError

	// Metrics errors
	MetricsPushError
)
