package xdaily

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/omeyang/logkit/pkg/util/xfile"
)

// dailySuffixLen 固定日期后缀 "_YYYY-MM-DD" 的长度。
// 与 DailyNamer 的输出宽度绑定，二者必须同步修改。
const dailySuffixLen = len("_2006-01-02")

// isDailyLogName 判断目录项名称是否符合固定日期后缀形状
// stem + "_YYYY-MM-DD" + ext：总长度正确、分隔符位置正确、其余为数字。
//
// 匹配器刻意保守：任何不能确定属于本轮转方案的名称都不匹配，
// 与 stem 同名的无关文件（如 app_notes.log）永远不会被清扫删除。
func isDailyLogName(name, stem, ext string) bool {
	if len(name) != len(stem)+dailySuffixLen+len(ext) {
		return false
	}
	if name[:len(stem)] != stem || name[len(stem)] != '_' {
		return false
	}
	if name[len(name)-len(ext):] != ext {
		return false
	}

	// 下划线后的 10 个字符：YYYY-MM-DD，第 4、7 位是 '-'，其余是数字
	date := name[len(stem)+1 : len(name)-len(ext)]
	for i := 0; i < len(date); i++ {
		if i == 4 || i == 7 {
			if date[i] != '-' {
				return false
			}
			continue
		}
		if date[i] < '0' || date[i] > '9' {
			return false
		}
	}
	return true
}

// dailyLogDate 提取匹配名称中嵌入的日期子串。
// 仅对 isDailyLogName 为 true 的名称有意义。
func dailyLogDate(name, stem string) string {
	return name[len(stem)+1 : len(stem)+dailySuffixLen]
}

// sweepObsolete 启动清扫：枚举目录，删除日期不晚于截止日期的匹配文件。
//
// 零填充的日期串字典序与日期序一致，直接用字符串比较。
// 清扫是尽力而为的：目录不可读、单个条目删除失败（包括被并发删除）
// 都只是跳过，不影响 Sink 的构造。返回成功删除的文件数。
func sweepObsolete(dir, stem, ext, cutoffDate string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isDailyLogName(name, stem, ext) {
			continue
		}
		if dailyLogDate(name, stem) > cutoffDate {
			continue
		}
		if os.Remove(filepath.Join(dir, name)) == nil {
			removed++
		}
	}
	return removed
}

// Sweep 对基础文件名所在目录执行一次保留清扫，不打开任何文件。
//
// 语义与构造输出器时的启动清扫一致：删除固定日期后缀形状、日期
// 不晚于 now-maxFiles*24h 的匹配文件。返回删除的文件数。
//
// 面向离线清理场景（定时任务、运维命令行），进程内持续写入时
// 用 WithMaxFiles 让输出器自己清理即可。
func Sweep(baseName string, maxFiles int, loc *time.Location, now time.Time) (int, error) {
	if baseName == "" {
		return 0, ErrEmptyFilename
	}
	if maxFiles <= 0 || maxFiles > maxRetentionDays {
		return 0, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxFiles, maxFiles, maxRetentionDays)
	}
	if loc == nil {
		loc = time.Local
	}

	safePath, err := xfile.SanitizePath(baseName)
	if err != nil {
		return 0, err
	}

	stem, ext := xfile.SplitExt(filepath.Base(safePath))
	cutoff := now.Add(-time.Duration(maxFiles) * 24 * time.Hour)
	cutoffDate := dailyDate(cutoff.In(loc))

	return sweepObsolete(filepath.Dir(safePath), stem, ext, cutoffDate), nil
}

// removeCutoffFile 轮转后删除恰好过期的单个文件：用当前命名策略计算
// 截止时刻对应的具体文件名并删除。
//
// 文件不存在不算错误（进程停运的日子本来就没有产生文件——按流逝时间
// 保留，而非按文件数量保留）。其余删除失败视为严重错误返回。
// 第一个返回值表示确实删除了一个文件。
func removeCutoffFile(calc FilenameCalc, baseName string, cutoff time.Time) (bool, error) {
	name := calc.CalcFilename(baseName, cutoff)
	err := os.Remove(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %s: %w", ErrRetentionDelete, name, err)
}
