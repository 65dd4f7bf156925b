package s3

import (
	"errors"
	"fmt"
	"io"
)

type ReachLimitError struct {
	MaxBytes int64
}

func (e *ReachLimitError) Error() string {
	return fmt.Sprintf("reach limit of %s", FormatBytes(e.MaxBytes))
}

// IsReachLimit 判斷錯誤是否為超過上傳大小限制
func IsReachLimit(err error) bool {
	_, ok := AsReachLimit(err)
	return ok
}

// AsReachLimit 取出錯誤鏈中的 ReachLimitError
func AsReachLimit(err error) (*ReachLimitError, bool) {
	var limitErr *ReachLimitError
	if errors.As(err, &limitErr) {
		return limitErr, true
	}
	return nil, false
}

// NewMaxSizeReader 包裝 r，讀取超過 maxSize 位元組時回傳 ReachLimitError
func NewMaxSizeReader(r io.Reader, maxSize int64) io.Reader {
	return &maxSizeReader{reader: r, limit: maxSize, remaining: maxSize}
}

type maxSizeReader struct {
	reader    io.Reader
	limit     int64
	remaining int64
}

func (r *maxSizeReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// 多讀一個位元組就能知道是否超過限制
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.reader.Read(p)
	if int64(n) <= r.remaining {
		r.remaining -= int64(n)
		return n, err
	}
	n = int(r.remaining)
	r.remaining = 0
	return n, &ReachLimitError{MaxBytes: r.limit}
}
