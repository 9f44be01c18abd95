package xfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDir 测试父目录创建
func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("创建多级父目录", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "a", "b", "c", "app.log")
		require.NoError(t, EnsureDir(filename))

		info, err := os.Stat(filepath.Dir(filename))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("目录已存在不报错", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "app.log")
		require.NoError(t, EnsureDir(filename))
		require.NoError(t, EnsureDir(filename))
	})

	t.Run("无目录部分的文件名直接返回", func(t *testing.T) {
		require.NoError(t, EnsureDir("app.log"))
	})

	t.Run("空文件名", func(t *testing.T) {
		err := EnsureDir("")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("包含空字节", func(t *testing.T) {
		err := EnsureDir("a\x00/app.log")
		assert.ErrorIs(t, err, ErrNullByte)
	})
}

// TestEnsureDirWithPerm 测试指定权限的目录创建
func TestEnsureDirWithPerm(t *testing.T) {
	t.Run("缺少所有者执行位被拒绝", func(t *testing.T) {
		err := EnsureDirWithPerm("a/app.log", 0600)
		assert.ErrorIs(t, err, ErrInvalidPerm)
	})

	t.Run("自定义权限创建", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "custom", "app.log")
		require.NoError(t, EnsureDirWithPerm(filename, 0700))

		info, err := os.Stat(filepath.Dir(filename))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})
}
