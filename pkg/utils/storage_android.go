//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 设置存储目录存在并可写
// gdata 在 Android 上使用 /data/data/{package}/ 作为存储路径，
// 但不会预先创建子目录，因此需要在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}
	app, err := packageFromCmdline(data)
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}

	dir := filepath.Join("/data/data", app, settingsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	// 验证目录可写
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}
