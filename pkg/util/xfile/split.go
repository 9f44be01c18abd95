package xfile

import "strings"

// SplitExt 按最后一个扩展名拆分文件名，返回 (stem, ext)。
//
// 规则：
//   - ext 包含前导点："app.log" -> ("app", ".log")
//   - 没有点则没有扩展名："app" -> ("app", "")
//   - 点在开头（隐藏文件）不算扩展名：".hidden" -> (".hidden", "")
//   - 多个点取最后一个："app.tar.gz" -> ("app.tar", ".gz")
//
// 拆分只作用于最后一个路径段，目录部分中的点不参与：
// "logs/v1.2/app.log" -> ("logs/v1.2/app", ".log")。
//
// 轮转文件名的日期后缀插在 stem 和 ext 之间，保持扩展名在文件名末尾，
// 日志采集工具按扩展名匹配时不受影响。
func SplitExt(name string) (stem, ext string) {
	// 只在最后一个路径段内查找扩展名
	sep := strings.LastIndexByte(name, '/')
	dot := strings.LastIndexByte(name, '.')
	if dot <= sep+1 {
		// 没有点，或点是段首字符（隐藏文件）
		return name, ""
	}
	return name[:dot], name[dot:]
}
