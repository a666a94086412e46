// Package uploadrules provides validation rules for uploaded files that a
// web application plugs into its own validation layer.
//
// There are four rules, each a synchronous predicate over one [File]:
//
//   - [MaxSize] compares the reported size with a byte limit.
//   - [Extensions] checks the extension of the temporary path against an allow-list.
//   - [MIMETypes] detects the media type from the file's bytes and checks it
//     against an allow-list.
//   - [Dimensions] decodes the image header and checks width and height
//     against optional minimum and maximum bounds.
//
// Rule configuration is validated when the rule is constructed, so a bad
// limit or an empty allow-list is reported at startup rather than on the
// first upload.
//
// # Basic Usage
//
//	size, _ := uploadrules.MaxSize(1 * uploadrules.MB)
//	dims, _ := uploadrules.Dimensions(uploadrules.Bounds{
//	    Min: &uploadrules.Box{W: uploadrules.Px(100), H: uploadrules.Px(100)},
//	    Max: &uploadrules.Box{W: uploadrules.Px(500), H: uploadrules.Px(500)},
//	})
//
//	ok, err := dims.Check(ctx, uploadrules.File{TmpName: "/tmp/php1a2b3c", Size: 2048})
//
// # Rejected Files and Broken Environments
//
// Rules distinguish three outcomes (see [Outcome]):
//
//   - Pass: the file satisfies the rule.
//   - Fail: the file was rejected. Check returns false and a nil error.
//   - EnvError: the rule could not run, for instance because the content
//     detector is not installed. Check returns a [*CapabilityError].
//
// An EnvError must not be reported to the user as a rejected file:
//
//	report, err := v.Validate(ctx, "avatar", file)
//	if uploadrules.IsCapabilityError(err) {
//	    // the server cannot check this file right now
//	}
//	if !report.Valid() {
//	    // the file was rejected
//	}
//
// # Wiring Rules Into an Application
//
// Rules are not registered globally. The application builds a [Table] of
// named rules and binds them to form fields with a [Validator]:
//
//	table := uploadrules.NewTable(size, dims)
//	v := uploadrules.NewValidator(table)
//	_ = v.Bind("avatar", uploadrules.RuleFileSize, uploadrules.RuleDimensions)
//	_ = v.Bind("attachments.*", uploadrules.RuleFileSize)
//
// Rule sets can also be loaded from YAML with the ruleset package, or from
// environment variables with [GetConfig] and [New].
//
// # Content Detection
//
// Media types come from the sniff package. Every detector reads only a
// bounded prefix of the file; see [sniff.Magic], [sniff.Mimetype] and
// [sniff.FileCommand].
package uploadrules
