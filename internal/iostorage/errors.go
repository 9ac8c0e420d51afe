package iostorage

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// ClientError is returned when the S3 client cannot be created.
func ClientError(endpoint string, err error) error {
	msg := `Cannot create object storage client for <em>%s</em>

Check storage.endpoint setting.`

	return &gn.Error{
		Code: errcode.StorageClientError,
		Msg:  msg,
		Vars: []any{endpoint},
		Err:  fmt.Errorf("storage client %s: %w", endpoint, err),
	}
}

// BucketError is returned when the target bucket is missing or cannot
// be checked.
func BucketError(bucket string, err error) error {
	msg := `Bucket <em>%s</em> is not available

Create the bucket or fix storage.bucket setting.`

	return &gn.Error{
		Code: errcode.StorageBucketError,
		Msg:  msg,
		Vars: []any{bucket},
		Err:  fmt.Errorf("bucket %s: %w", bucket, err),
	}
}

// UploadError is returned when an object cannot be written.
func UploadError(key string, err error) error {
	return &gn.Error{
		Code: errcode.StorageUploadError,
		Msg:  "Cannot upload <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("upload %s: %w", key, err),
	}
}
