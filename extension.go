package uploadrules

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ExtensionRule accepts files whose temporary path carries an allowed extension.
// Matching is exact and case-sensitive: "jpg" does not allow "JPG".
type ExtensionRule struct {
	allowed map[string]struct{}
}

// Extensions returns a rule accepting the listed extensions. A single leading
// dot is dropped, so ".png" and "png" are the same entry.
func Extensions(allowed ...string) (*ExtensionRule, error) {
	if len(allowed) == 0 {
		return nil, configError(RuleExtension, "at least one extension is required")
	}

	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			return nil, configError(RuleExtension, "empty extension in allow-list")
		}
		set[ext] = struct{}{}
	}
	return &ExtensionRule{allowed: set}, nil
}

// Name implements Rule.
func (r *ExtensionRule) Name() string { return RuleExtension }

// Check implements Rule. A path without an extension never matches.
func (r *ExtensionRule) Check(_ context.Context, file File) (bool, error) {
	ext := file.Ext()
	if ext == "" {
		return false, nil
	}
	_, ok := r.allowed[ext]
	return ok, nil
}

// Allowed returns the allow-list in sorted order.
func (r *ExtensionRule) Allowed() []string {
	return sortedKeys(r.allowed)
}

func (r *ExtensionRule) String() string {
	return fmt.Sprintf("extension in [%s]", strings.Join(r.Allowed(), ", "))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
