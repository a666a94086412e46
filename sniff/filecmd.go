package sniff

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FileCommand detects media types with the libmagic based file(1) utility.
// The file header is piped to the command on stdin, so the command never
// reads more than Limit bytes of the upload.
//
// When the binary is missing or cannot run, Detect fails with [ErrUnavailable].
type FileCommand struct {
	// Binary is the command name or path. Defaults to "file".
	Binary string

	// Limit is the number of leading bytes piped to the command.
	Limit int
}

// NewFileCommand returns a detector running "file" from PATH.
func NewFileCommand() *FileCommand {
	return &FileCommand{Binary: "file", Limit: DefaultHeaderLimit}
}

// Name implements Detector.
func (c *FileCommand) Name() string { return "file" }

// Detect implements Detector.
func (c *FileCommand) Detect(ctx context.Context, path string) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = "file"
	}

	bin, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnavailable, c.Name(), err)
	}

	header, err := readHeader(ctx, path, c.Limit)
	if err != nil {
		return "", err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--brief", "--mime-type", "-")
	cmd.Stdin = bytes.NewReader(header)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrUnavailable, c.Name(), err, strings.TrimSpace(stderr.String()))
	}

	return bareType(string(out)), nil
}
