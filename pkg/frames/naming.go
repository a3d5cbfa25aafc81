package frames

import (
	"fmt"
	"strings"
)

// DefaultPadWidth 帧序号补零宽度（ezgif-frame-001.jpg）
const DefaultPadWidth = 3

// DefaultExt 默认帧图片扩展名
const DefaultExt = "jpg"

// FramePath builds the resource name of a single frame.
//
// The index is 1-based and zero-padded to padWidth digits:
//
//	FramePath("/iphone_banner/ezgif-frame-", 7, 3, "jpg") == "/iphone_banner/ezgif-frame-007.jpg"
//
// A leading dot in ext is tolerated. Indices wider than padWidth are not truncated.
func FramePath(basePath string, index, padWidth int, ext string) string {
	if padWidth < 1 {
		padWidth = 1
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s%0*d.%s", basePath, padWidth, index, ext)
}
