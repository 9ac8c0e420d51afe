package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// PushError is returned when metrics cannot be sent to the Pushgateway.
func PushError(url string, err error) error {
	return &gn.Error{
		Code: errcode.MetricsPushError,
		Msg:  "Cannot push metrics to <em>%s</em>",
		Vars: []any{url},
		Err:  fmt.Errorf("push metrics to %s: %w", url, err),
	}
}
