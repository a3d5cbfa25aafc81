package utils

import "testing"

func TestPackageFromCmdline(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{"只有进程名", []byte("com.decker.scrollscrub\x00"), "com.decker.scrollscrub", false},
		{"带参数", []byte("com.decker.scrollscrub\x00--flag\x00"), "com.decker.scrollscrub", false},
		{"无结尾空字节", []byte("com.decker.scrollscrub\n"), "com.decker.scrollscrub", false},
		{"空内容", []byte{}, "", true},
		{"只有空字节", []byte{0, 0}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packageFromCmdline(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("packageFromCmdline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureStorageDirDesktop(t *testing.T) {
	if err := EnsureStorageDir(); err != nil {
		t.Errorf("EnsureStorageDir() = %v, want nil on desktop", err)
	}
}
