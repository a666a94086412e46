package uploadrules

import (
	"context"
	"fmt"
)

// Size constants for easier file size configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// SizeRule accepts files whose reported size does not exceed a limit.
type SizeRule struct {
	limit int64
}

// MaxSize returns a rule accepting files of at most limit bytes.
func MaxSize(limit int64) (*SizeRule, error) {
	if limit < 0 {
		return nil, configError(RuleFileSize, "limit must not be negative, got %d", limit)
	}
	return &SizeRule{limit: limit}, nil
}

// Name implements Rule.
func (r *SizeRule) Name() string { return RuleFileSize }

// Limit returns the configured byte limit.
func (r *SizeRule) Limit() int64 { return r.limit }

// Check implements Rule. It performs no I/O.
func (r *SizeRule) Check(_ context.Context, file File) (bool, error) {
	return file.Size <= r.limit, nil
}

func (r *SizeRule) String() string {
	return fmt.Sprintf("size <= %d bytes (%s)", r.limit, FormatSize(r.limit))
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(size int64) string {
	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
