package constants

import (
	"path/filepath"
	"strings"
)

// OutputSuffix is appended to the source base name to build the searchable PDF name.
const OutputSuffix = "_ocr_txt.pdf"

// AllowedExtensions holds the image extensions picked up by the lister.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageName reports whether name ends in a recognized image suffix, ignoring case.
func IsImageName(name string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(name))]
	return ok
}

// OutputPathFor returns <dir of src>/<base>_ocr_txt.pdf.
func OutputPathFor(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), base+OutputSuffix)
}
