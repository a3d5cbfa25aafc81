package utils

import (
	"bytes"
	"fmt"
)

// settingsDirName gdata 存储根目录下的设置子目录
const settingsDirName = "settings"

// packageFromCmdline 从 /proc/self/cmdline 内容中取出进程名（第一个参数）
// Android 应用进程名即包名，如 "com.decker.scrollscrub"
func packageFromCmdline(data []byte) (string, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}
	return name, nil
}
