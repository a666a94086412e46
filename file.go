package uploadrules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File describes one uploaded file as handed over by the hosting framework.
type File struct {
	// TmpName is the path of the temporary copy of the upload.
	TmpName string `json:"tmp_name" yaml:"tmp_name"`

	// Size is the size in bytes reported for the upload.
	Size int64 `json:"size" yaml:"size"`

	// Name is the file name supplied by the client. Rules never trust it.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// FileFromPath describes a file already on the local filesystem.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		TmpName: path,
		Size:    info.Size(),
		Name:    filepath.Base(path),
	}, nil
}

// Ext returns the extension of the temporary path without the dot.
func (f File) Ext() string {
	return Ext(f.TmpName)
}

// Ext returns the part of the last path element that follows its final dot.
// A name without a dot has no extension. The result keeps its case.
//
//	Ext("/tmp/photo.JPG")   == "JPG"
//	Ext("/tmp/archive.tar.gz") == "gz"
//	Ext("/tmp/php7a1B2c")   == ""
func Ext(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return ""
	}
	return base[idx+1:]
}
