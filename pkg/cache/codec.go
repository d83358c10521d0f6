package cache

import (
	"encoding/binary"
	"errors"
	"time"
)

var errCorrupt = errors.New("cache: corrupt entry")

// encodeEntry lays an entry out as
//
//	storedAt (8) | expiresAt (8) | len(etag) (2) | etag | body
//
// with times in Unix nanoseconds and zero for "unset".
func encodeEntry(e *Entry) []byte {
	buf := make([]byte, 18+len(e.ETag)+len(e.Body))
	binary.BigEndian.PutUint64(buf[0:], uint64(unixNano(e.StoredAt)))
	binary.BigEndian.PutUint64(buf[8:], uint64(unixNano(e.ExpiresAt)))
	binary.BigEndian.PutUint16(buf[16:], uint16(len(e.ETag)))
	n := copy(buf[18:], e.ETag)
	copy(buf[18+n:], e.Body)
	return buf
}

func decodeEntry(data []byte) (*Entry, error) {
	if len(data) < 18 {
		return nil, errCorrupt
	}
	tagLen := int(binary.BigEndian.Uint16(data[16:]))
	if len(data) < 18+tagLen {
		return nil, errCorrupt
	}
	body := make([]byte, len(data)-18-tagLen)
	copy(body, data[18+tagLen:])
	return &Entry{
		StoredAt:  fromUnixNano(int64(binary.BigEndian.Uint64(data[0:]))),
		ExpiresAt: fromUnixNano(int64(binary.BigEndian.Uint64(data[8:]))),
		ETag:      string(data[18 : 18+tagLen]),
		Body:      body,
	}, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
