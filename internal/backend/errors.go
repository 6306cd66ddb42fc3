package backend

import (
	"errors"
	"fmt"
)

// NetworkError indicates the backend could not be reached at all:
// connection refused, DNS failure, timeout.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable (%s): %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BadResponseError indicates the backend answered but the answer is
// unusable: a non-2xx status or a body that does not match the contract.
type BadResponseError struct {
	Endpoint string
	Status   int    // 0 when the status was fine but the body was malformed
	Detail   string // FastAPI "detail" field or a body excerpt
	Err      error
}

func (e *BadResponseError) Error() string {
	msg := fmt.Sprintf("bad response from %s", e.Endpoint)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadResponseError) Unwrap() error { return e.Err }

// Describe turns a client error into the short notice shown to the reader.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "無法連線到伺服器"
	}
	var badErr *BadResponseError
	if errors.As(err, &badErr) {
		switch {
		case badErr.Detail != "" && badErr.Status != 0:
			return fmt.Sprintf("伺服器錯誤 %d：%s", badErr.Status, badErr.Detail)
		case badErr.Status != 0:
			return fmt.Sprintf("伺服器錯誤 %d", badErr.Status)
		default:
			return "伺服器回應格式錯誤"
		}
	}
	return truncate(err.Error())
}
