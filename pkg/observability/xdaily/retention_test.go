package xdaily

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// 匹配器测试
// =============================================================================

// TestIsDailyLogName 测试固定日期后缀形状匹配
func TestIsDailyLogName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		stem     string
		ext      string
		want     bool
	}{
		{name: "标准匹配", filename: "app_2024-03-07.log", stem: "app", ext: ".log", want: true},
		{name: "无扩展名匹配", filename: "app_2024-03-07", stem: "app", ext: "", want: true},
		{name: "stem 含下划线", filename: "my_app_2024-03-07.log", stem: "my_app", ext: ".log", want: true},
		{name: "同 stem 的无关文件", filename: "app_notes.log", stem: "app", ext: ".log", want: false},
		{name: "长度不符", filename: "app_2024-3-7.log", stem: "app", ext: ".log", want: false},
		{name: "缺少下划线分隔", filename: "app-2024-03-07.log", stem: "app", ext: ".log", want: false},
		{name: "日期分隔符错误", filename: "app_2024_03_07.log", stem: "app", ext: ".log", want: false},
		{name: "日期中混入字母", filename: "app_2024-03-0x.log", stem: "app", ext: ".log", want: false},
		{name: "扩展名不符", filename: "app_2024-03-07.txt", stem: "app", ext: ".log", want: false},
		{name: "stem 不符", filename: "web_2024-03-07.log", stem: "app", ext: ".log", want: false},
		{name: "压缩副本不匹配", filename: "app_2024-03-07.log.gz", stem: "app", ext: ".log", want: false},
		{name: "基础文件本身不匹配", filename: "app.log", stem: "app", ext: ".log", want: false},
		{name: "空名称", filename: "", stem: "app", ext: ".log", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDailyLogName(tt.filename, tt.stem, tt.ext))
		})
	}
}

// TestDailyLogDate 测试日期子串提取
func TestDailyLogDate(t *testing.T) {
	assert.Equal(t, "2024-03-07", dailyLogDate("app_2024-03-07.log", "app"))
	assert.Equal(t, "1999-12-31", dailyLogDate("my_app_1999-12-31", "my_app"))
}

// =============================================================================
// 启动清扫测试
// =============================================================================

// TestSweepObsolete 测试目录清扫
func TestSweepObsolete(t *testing.T) {
	tmpDir := t.TempDir()

	create := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}

	create("app_2024-01-01.log")
	create("app_2024-01-02.log")
	create("app_2024-01-03.log")
	create("app_notes.log")    // 形状不符，永不删除
	create("app.log")          // 基础文件本身
	create("web_2024-01-01.log") // 其他 stem

	removed := sweepObsolete(tmpDir, "app", ".log", "2024-01-02")
	assert.Equal(t, 2, removed)

	survivors := listNames(t, tmpDir)
	assert.NotContains(t, survivors, "app_2024-01-01.log")
	assert.NotContains(t, survivors, "app_2024-01-02.log")
	assert.Contains(t, survivors, "app_2024-01-03.log")
	assert.Contains(t, survivors, "app_notes.log")
	assert.Contains(t, survivors, "app.log")
	assert.Contains(t, survivors, "web_2024-01-01.log")
}

// TestSweepObsoleteSkipsDirectories 测试目录条目被跳过
func TestSweepObsoleteSkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	// 形状匹配但是目录的条目
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "app_2024-01-01.log"), 0750))

	removed := sweepObsolete(tmpDir, "app", ".log", "2024-01-02")
	assert.Equal(t, 0, removed)

	info, err := os.Stat(filepath.Join(tmpDir, "app_2024-01-01.log"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestSweepObsoleteUnreadableDir 测试目录不可读时清扫静默放弃
func TestSweepObsoleteUnreadableDir(t *testing.T) {
	removed := sweepObsolete(filepath.Join(t.TempDir(), "missing"), "app", ".log", "2024-01-02")
	assert.Equal(t, 0, removed)
}

// TestSweep 测试导出的离线清扫
func TestSweep(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "app.log")
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	for _, name := range []string{
		"app_2024-01-01.log",
		"app_2024-01-02.log",
		"app_2024-01-03.log",
		"app_notes.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}

	// 截止日期 now-2*24h = 2024-01-01
	removed, err := Sweep(base, 2, time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, filepath.Join(tmpDir, "app_2024-01-01.log"))
	assert.FileExists(t, filepath.Join(tmpDir, "app_2024-01-02.log"))
	assert.FileExists(t, filepath.Join(tmpDir, "app_notes.log"))
}

// TestSweepValidation 测试离线清扫的参数校验
func TestSweepValidation(t *testing.T) {
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	_, err := Sweep("", 2, time.UTC, now)
	assert.ErrorIs(t, err, ErrEmptyFilename)

	_, err = Sweep("app.log", 0, time.UTC, now)
	assert.ErrorIs(t, err, ErrInvalidMaxFiles)

	_, err = Sweep("app.log", maxRetentionDays+1, time.UTC, now)
	assert.ErrorIs(t, err, ErrInvalidMaxFiles)
}

// =============================================================================
// 轮转后单点删除测试
// =============================================================================

// TestRemoveCutoffFile 测试截止文件删除
func TestRemoveCutoffFile(t *testing.T) {
	cutoff := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("文件存在则删除", func(t *testing.T) {
		tmpDir := t.TempDir()
		base := filepath.Join(tmpDir, "app.log")
		target := filepath.Join(tmpDir, "app_2024-01-02.log")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0600))

		removed, err := removeCutoffFile(DailyNamer{}, base, cutoff)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NoFileExists(t, target)
	})

	t.Run("文件不存在不算错误", func(t *testing.T) {
		tmpDir := t.TempDir()
		base := filepath.Join(tmpDir, "app.log")

		removed, err := removeCutoffFile(DailyNamer{}, base, cutoff)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("其他删除失败返回 ErrRetentionDelete", func(t *testing.T) {
		tmpDir := t.TempDir()
		base := filepath.Join(tmpDir, "app.log")
		// 用非空目录占据目标文件名，os.Remove 必然失败
		target := filepath.Join(tmpDir, "app_2024-01-02.log")
		require.NoError(t, os.Mkdir(target, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(target, "inner"), []byte("x"), 0600))

		removed, err := removeCutoffFile(DailyNamer{}, base, cutoff)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRetentionDelete)
		assert.False(t, removed)
	})
}

// listNames 返回目录中的条目名称
func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
