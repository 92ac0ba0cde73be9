package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

// resetForTest 恢复包级状态
func resetForTest(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		dataFS = nil
		initialized = false
	})
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetForTest(t)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
	if IsInitialized() {
		t.Error("Init(nil) should leave the package uninitialized")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	resetForTest(t)

	_, err := ReadFile("data/minigame.yaml")
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if Exists("data/minigame.yaml") {
		t.Error("Exists() should be false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	resetForTest(t)
	Init(fstest.MapFS{
		"data/minigame.yaml": &fstest.MapFile{Data: []byte("round: {}\n")},
	})

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"标准路径", "data/minigame.yaml", "round: {}\n", false},
		{"带 ./ 前缀", "./data/minigame.yaml", "round: {}\n", false},
		{"文件不存在", "data/missing.yaml", "", true},
		{"未知前缀", "assets/minigame.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ReadFile(%q) expected error", tt.path)
				}
				if Exists(tt.path) {
					t.Errorf("Exists(%q) should be false", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile(%q) failed: %v", tt.path, err)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
			if !Exists(tt.path) {
				t.Errorf("Exists(%q) should be true", tt.path)
			}
		})
	}
}
