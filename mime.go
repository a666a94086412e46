package uploadrules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gobeaver/uploadrules/sniff"
)

// MIMERule accepts files whose content-detected media type is allowed.
// The client file name and any claimed type are ignored.
type MIMERule struct {
	detector sniff.Detector
	allowed  map[string]struct{}
}

// MIMETypes returns a rule accepting the listed media types, matched exactly.
// A nil detector is accepted; every check then fails with a CapabilityError.
func MIMETypes(detector sniff.Detector, allowed ...string) (*MIMERule, error) {
	if len(allowed) == 0 {
		return nil, configError(RuleMIMEType, "at least one media type is required")
	}

	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, configError(RuleMIMEType, "empty media type in allow-list")
		}
		set[t] = struct{}{}
	}
	return &MIMERule{detector: detector, allowed: set}, nil
}

// Name implements Rule.
func (r *MIMERule) Name() string { return RuleMIMEType }

// Check implements Rule.
//
// Detection that cannot run in this environment returns a *CapabilityError
// and no verdict. A file that cannot be read is rejected.
func (r *MIMERule) Check(ctx context.Context, file File) (bool, error) {
	if r.detector == nil {
		return false, &CapabilityError{
			Capability: "content detection",
			Message:    "no content detector configured",
		}
	}

	mediaType, err := r.detector.Detect(ctx, file.TmpName)
	if err != nil {
		if errors.Is(err, sniff.ErrUnavailable) {
			return false, &CapabilityError{
				Capability: r.detector.Name(),
				Message:    err.Error(),
				Err:        err,
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}

	_, ok := r.allowed[mediaType]
	return ok, nil
}

// Detector returns the content detector in use.
func (r *MIMERule) Detector() sniff.Detector { return r.detector }

// Allowed returns the allow-list in sorted order.
func (r *MIMERule) Allowed() []string {
	return sortedKeys(r.allowed)
}

func (r *MIMERule) String() string {
	return fmt.Sprintf("content type in [%s]", strings.Join(r.Allowed(), ", "))
}
