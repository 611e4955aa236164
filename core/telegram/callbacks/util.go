package callbacks

import (
	"errors"
	"strings"
)

// MaxDataLen is Telegram's limit for callback_data, in bytes.
const MaxDataLen = 64

var (
	// ErrMalformed reports callback data with the wrong number of fields.
	ErrMalformed = errors.New("callbacks: malformed data")
	// ErrTooLong reports callback data that Telegram would reject.
	ErrTooLong = errors.New("callbacks: data exceeds 64 bytes")
)

// Split cuts data into exactly n fields separated by sep.
func Split(data, sep string, n int) ([]string, error) {
	parts := strings.Split(data, sep)
	if len(parts) != n {
		return nil, ErrMalformed
	}
	return parts, nil
}

// Join builds callback data from fields and enforces the Telegram size limit.
func Join(sep string, fields ...string) (string, error) {
	data := strings.Join(fields, sep)
	if len(data) > MaxDataLen {
		return "", ErrTooLong
	}
	return data, nil
}
