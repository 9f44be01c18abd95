package xdaily

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 基础文件名为空
	ErrEmptyFilename = errors.New("xdaily: filename is required")

	// ErrInvalidRotationTime 轮转时刻无效（hour 必须在 0~23，minute 必须在 0~59）
	ErrInvalidRotationTime = errors.New("xdaily: invalid rotation time")

	// ErrInvalidMaxFiles MaxFiles 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxFiles = errors.New("xdaily: invalid MaxFiles")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许低 9 位 0000~0777）
	ErrInvalidFileMode = errors.New("xdaily: invalid FileMode")
)

// 运行期错误
var (
	// ErrClosed 输出器已关闭
	ErrClosed = errors.New("xdaily: sink is closed")

	// ErrOpenFile 日志文件打开失败（构造时或轮转时）
	ErrOpenFile = errors.New("xdaily: open log file failed")

	// ErrRetentionDelete 轮转后删除过期文件失败（文件不存在除外）。
	// 此时记录本身已写入成功，但触发轮转的调用整体返回此错误。
	ErrRetentionDelete = errors.New("xdaily: remove obsolete daily file failed")
)
