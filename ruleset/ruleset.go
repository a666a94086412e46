// Package ruleset loads per-field upload rules from YAML documents:
//
//	detector: mimetype
//	header_limit: 524288
//	fields:
//	  avatar:
//	    filesize: 1048576
//	    extension: [jpg, png]
//	    mimetype: [image/jpeg, image/png]
//	    dimensions: {min: {w: 100, h: 100}, max: {w: 500, h: 500}}
//	  "attachments.*":
//	    filesize: 5242880
//
// Field names are glob patterns matched with "." as the separator.
package ruleset

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sort"

	"github.com/gobeaver/uploadrules"
	"github.com/gobeaver/uploadrules/sniff"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Document is the top level of a rule-set file.
type Document struct {
	// Detector names the content detector for mimetype rules
	// (see sniff.ByName). Empty selects the default.
	Detector string `yaml:"detector"`

	// HeaderLimit bounds the bytes read by dimensions rules.
	HeaderLimit int64 `yaml:"header_limit"`

	// Fingerprint attaches content fingerprints to reports.
	Fingerprint bool `yaml:"fingerprint"`

	Fields map[string]FieldRules `yaml:"fields"`
}

// FieldRules lists the rules for one field pattern. Unset keys add no rule.
type FieldRules struct {
	Filesize   *int64              `yaml:"filesize"`
	Extension  []string            `yaml:"extension"`
	Mimetype   []string            `yaml:"mimetype"`
	Dimensions *uploadrules.Bounds `yaml:"dimensions"`
}

// ErrEmpty is returned for a document without any field.
var ErrEmpty = errors.New("rule set defines no fields")

// Load reads and builds the rule set at path.
func Load(path string) (*uploadrules.Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rule set", goerr.V("path", path))
	}

	v, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load rule set", goerr.V("path", path))
	}
	return v, nil
}

// Parse builds a validator from a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*uploadrules.Validator, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Decode parses a YAML document without building any rule.
func Decode(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, goerr.Wrap(err, "failed to decode rule set")
	}
	if len(doc.Fields) == 0 {
		return nil, ErrEmpty
	}
	return &doc, nil
}

// Build constructs the rules of doc. Each rule is registered in the table
// as "<field>.<rule>" and bound to its field pattern.
func Build(doc *Document) (*uploadrules.Validator, error) {
	if doc == nil || len(doc.Fields) == 0 {
		return nil, ErrEmpty
	}

	detector, err := sniff.ByName(doc.Detector)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid detector", goerr.V("detector", doc.Detector))
	}

	var opts []uploadrules.ValidatorOption
	if doc.Fingerprint {
		opts = append(opts, uploadrules.WithFingerprint())
	}
	table := uploadrules.NewTable()
	v := uploadrules.NewValidator(table, opts...)

	fields := make([]string, 0, len(doc.Fields))
	for field := range doc.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		rules, err := buildField(doc.Fields[field], detector, doc.HeaderLimit)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid field rules", goerr.V("field", field))
		}
		if len(rules) == 0 {
			return nil, goerr.New("field has no rules", goerr.V("field", field))
		}

		names := make([]string, 0, len(rules))
		for _, rule := range rules {
			name := field + "." + rule.Name()
			table.Register(name, rule)
			names = append(names, name)
		}
		if err := v.Bind(field, names...); err != nil {
			return nil, goerr.Wrap(err, "failed to bind field", goerr.V("field", field))
		}
	}

	return v, nil
}

// buildField returns the rules in evaluation order: size, extension, media
// type, dimensions.
func buildField(fr FieldRules, detector sniff.Detector, headerLimit int64) ([]uploadrules.Rule, error) {
	var rules []uploadrules.Rule

	if fr.Filesize != nil {
		r, err := uploadrules.MaxSize(*fr.Filesize)
		if err != nil {
			return nil, goerr.Wrap(err, "bad filesize", goerr.V("rule", uploadrules.RuleFileSize))
		}
		rules = append(rules, r)
	}
	if fr.Extension != nil {
		r, err := uploadrules.Extensions(fr.Extension...)
		if err != nil {
			return nil, goerr.Wrap(err, "bad extension list", goerr.V("rule", uploadrules.RuleExtension))
		}
		rules = append(rules, r)
	}
	if fr.Mimetype != nil {
		r, err := uploadrules.MIMETypes(detector, fr.Mimetype...)
		if err != nil {
			return nil, goerr.Wrap(err, "bad mimetype list", goerr.V("rule", uploadrules.RuleMIMEType))
		}
		rules = append(rules, r)
	}
	if fr.Dimensions != nil {
		r, err := uploadrules.Dimensions(*fr.Dimensions, uploadrules.WithHeaderLimit(headerLimit))
		if err != nil {
			return nil, goerr.Wrap(err, "bad dimensions", goerr.V("rule", uploadrules.RuleDimensions))
		}
		rules = append(rules, r)
	}

	return rules, nil
}
