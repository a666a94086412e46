// Package sniff detects the media type of a file from its content.
//
// Detectors never look at the file name. Each one reads a bounded prefix of
// the file.
//
// A detector that cannot run in the current environment (a missing binary, a
// disabled backend) returns an error matching [ErrUnavailable]. Callers use
// that to tell a misconfigured server apart from a rejected file.
package sniff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// DefaultHeaderLimit is the number of leading bytes a detector inspects
// unless configured otherwise.
const DefaultHeaderLimit = 3072

// ErrUnavailable reports that content detection cannot run in this environment.
var ErrUnavailable = errors.New("content detection unavailable")

// Detector determines the media type of the file at path from its bytes.
type Detector interface {
	// Name identifies the detection capability, e.g. "magic" or "file".
	Name() string

	// Detect returns the bare media type (no parameters) of the file.
	Detect(ctx context.Context, path string) (string, error)
}

// ByName returns a detector with default settings for one of the names
// listed by [Names].
func ByName(name string) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "magic", "":
		return NewMagic(), nil
	case "mimetype":
		return NewMimetype(), nil
	case "file":
		return NewFileCommand(), nil
	default:
		return nil, fmt.Errorf("unknown detector %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
}

// Names lists the detectors known to [ByName].
func Names() []string {
	names := []string{"magic", "mimetype", "file"}
	sort.Strings(names)
	return names
}

// unavailable is a Detector that never runs.
type unavailable struct {
	name   string
	reason string
}

// Unavailable returns a detector that always fails with [ErrUnavailable].
// It stands in for a detection backend that has been switched off.
func Unavailable(name, reason string) Detector {
	return &unavailable{name: name, reason: reason}
}

func (u *unavailable) Name() string { return u.name }

func (u *unavailable) Detect(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("%w: %s: %s", ErrUnavailable, u.name, u.reason)
}

// readHeader returns at most limit leading bytes of the file at path.
func readHeader(ctx context.Context, path string, limit int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHeaderLimit
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, limit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return buf[:n], nil
}

// bareType strips parameters such as "; charset=utf-8" from a media type.
func bareType(mediaType string) string {
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.TrimSpace(mediaType)
}
