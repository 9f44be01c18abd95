package xdaily

import (
	"bufio"
	"io/fs"
	"os"
)

// defaultFileMode 日志文件默认权限。
// 与 gosec G302 建议一致，仅所有者可读写；可用 WithFileMode 放宽。
const defaultFileMode os.FileMode = 0600

// defaultBufSize 写缓冲大小。
// 日志行通常在几百字节量级，32KB 缓冲在写放大和内存占用间取平衡。
const defaultBufSize = 32 * 1024

// FileEvents 文件打开/关闭事件回调
//
// 两个回调都是可选的（nil 表示不通知），在 Sink 的锁内同步执行，
// 应保持轻量。
//
// 安全约束：回调不得向同一 Sink 写入数据，否则会死锁。
type FileEvents struct {
	// OnOpen 在日志文件成功打开后调用
	OnOpen func(filename string, f *os.File)

	// OnClose 在日志文件关闭前调用（缓冲已刷出）
	OnClose func(filename string, f *os.File)
}

// fileHandle 当前打开日志文件的独占句柄
//
// 由 Sink 独占持有，任意时刻至多一个文件处于打开状态；
// 仅在轮转时替换（先关旧再开新）。写入经过 bufio 缓冲，
// flush 刷出用户态缓冲（不做 fsync）。
type fileHandle struct {
	name   string
	f      *os.File
	w      *bufio.Writer
	mode   os.FileMode
	events FileEvents
}

// open 打开（必要时先关闭当前）日志文件。
// truncate 为 true 时清空文件，否则追加。
func (h *fileHandle) open(name string, truncate bool) error {
	if err := h.close(); err != nil {
		return err
	}

	flag := os.O_CREATE | os.O_WRONLY
	if truncate {
		flag |= os.O_TRUNC
	} else {
		flag |= os.O_APPEND
	}

	//#nosec G304 -- 文件名由构造方配置经 SanitizePath 净化后派生
	f, err := os.OpenFile(name, flag, h.mode)
	if err != nil {
		return err
	}

	h.name = name
	h.f = f
	h.w = bufio.NewWriterSize(f, defaultBufSize)

	if h.events.OnOpen != nil {
		h.events.OnOpen(name, f)
	}
	return nil
}

// write 追加原始字节到当前文件。
// 前一次轮转打开新文件失败后句柄处于未打开状态，此时写入报错
// 而不是 panic；下一次到期轮转成功即恢复。
func (h *fileHandle) write(p []byte) (int, error) {
	if h.w == nil {
		return 0, fs.ErrClosed
	}
	return h.w.Write(p)
}

// flush 刷出用户态写缓冲。
func (h *fileHandle) flush() error {
	if h.w == nil {
		return nil
	}
	return h.w.Flush()
}

// close 刷出缓冲并关闭当前文件。未打开时是空操作。
func (h *fileHandle) close() error {
	if h.f == nil {
		return nil
	}

	flushErr := h.w.Flush()

	if h.events.OnClose != nil {
		h.events.OnClose(h.name, h.f)
	}

	closeErr := h.f.Close()
	h.f = nil
	h.w = nil

	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// filename 返回当前打开文件的路径。
func (h *fileHandle) filename() string {
	return h.name
}
