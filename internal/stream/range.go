// Package stream serves library media files to the UI player over HTTP with
// byte-range support, so the video element can seek without re-downloading.
package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// ByteRange is an inclusive byte interval within a file of known size.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a 206 response.
func (r ByteRange) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// ParseRange interprets a Range request header against a file of the given
// size. A missing header yields (nil, nil): serve the whole file. Only the
// first range of a multi-range header is honored.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}
	if first, _, found := strings.Cut(spec, ","); found {
		spec = strings.TrimSpace(first)
	}

	startPart, endPart, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	if startPart == "" {
		// Suffix form: the final N bytes of the file.
		suffix, err := strconv.ParseInt(endPart, 10, 64)
		if err != nil || suffix <= 0 {
			return nil, ErrInvalidRange
		}
		start := size - suffix
		if start < 0 {
			start = 0
		}
		return &ByteRange{Start: start, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(startPart, 10, 64)
	if err != nil || start < 0 {
		return nil, ErrInvalidRange
	}

	end := size - 1
	if endPart != "" {
		end, err = strconv.ParseInt(endPart, 10, 64)
		if err != nil {
			return nil, ErrInvalidRange
		}
	}

	if start > end || start >= size {
		return nil, ErrUnsatisfiable
	}
	if end >= size {
		end = size - 1
	}

	return &ByteRange{Start: start, End: end}, nil
}
