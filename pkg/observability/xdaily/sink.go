package xdaily

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/logkit/pkg/util/xfile"
)

// maxRetentionDays MaxFiles 上限（约 10 年）
const maxRetentionDays = 3650

// Observer 轮转过程的观测回调
//
// 由 Sink 在锁内同步调用，应保持轻量。实现见
// pkg/observability/xmetrics 的 OTel 版本。
type Observer interface {
	// ObserveWrite 每次成功写入后上报写入字节数
	ObserveWrite(bytes int)

	// ObserveRotation 每次轮转（自动或手动）后上报
	ObserveRotation()

	// ObserveRetentionDelete 保留清扫删除文件后上报删除数量
	ObserveRetentionDelete(files int)
}

// nopLocker 空锁实现
//
// 调用方已保证单线程或外部串行化访问时，用它替换互斥锁，
// 消除热路径上的锁开销。
type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// sinkConfig 每日轮转输出器配置
type sinkConfig struct {
	hour     int
	minute   int
	truncate bool
	maxFiles int
	calc     FilenameCalc
	loc      *time.Location
	clock    func() time.Time
	events   FileEvents
	fileMode os.FileMode
	locker   sync.Locker
	observer Observer
}

// Option 配置选项函数
type Option func(*sinkConfig)

// WithRotationAt 设置每日轮转时刻（本地时间 hour:minute）
//
// hour 必须在 0~23，minute 必须在 0~59，越界在构造时返回
// [ErrInvalidRotationTime]。默认 00:00。
func WithRotationAt(hour, minute int) Option {
	return func(c *sinkConfig) {
		c.hour = hour
		c.minute = minute
	}
}

// WithTruncate 设置轮转打开新文件时是否清空
//
// 默认 false（追加），进程重启后继续写入当天已有文件。
func WithTruncate(truncate bool) Option {
	return func(c *sinkConfig) {
		c.truncate = truncate
	}
}

// WithMaxFiles 设置保留的轮转文件天数
//
// 0（默认）表示不清理。n > 0 时按流逝时间近似保留 n 天：
// 构造时清扫日期不晚于 now-n*24h 的匹配文件，每次轮转后删除
// 恰好过期的那个文件。上限 3650。
//
// 这是按流逝时间而非按文件数量的保留：进程停运的日子不会产生
// 文件，清扫也不会向更早回溯补偿。
func WithMaxFiles(n int) Option {
	return func(c *sinkConfig) {
		c.maxFiles = n
	}
}

// WithPattern 将基础文件名视为 Go 时间布局（见 [PatternNamer]）
//
// 例如 NewSink("app-2006-01-02-15.log", WithPattern())。
// Pattern 策略下启动清扫仍按固定日期后缀形状匹配，通常不命中；
// 可靠的清理只有轮转后对截止文件的单点删除。
func WithPattern() Option {
	return func(c *sinkConfig) {
		c.calc = PatternNamer{}
	}
}

// WithNamer 设置自定义文件名计算策略
func WithNamer(calc FilenameCalc) Option {
	return func(c *sinkConfig) {
		if calc != nil {
			c.calc = calc
		}
	}
}

// WithLocation 设置轮转时刻和文件名日期使用的时区
//
// 默认 time.Local。
func WithLocation(loc *time.Location) Option {
	return func(c *sinkConfig) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock 注入时钟
//
// 构造、Write（io.Writer 路径）和手动 Rotate 取"当前时间"时使用。
// 默认 time.Now，测试中注入固定时钟使轮转判定可复现。
func WithClock(clock func() time.Time) Option {
	return func(c *sinkConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithFileEvents 设置文件打开/关闭事件回调
func WithFileEvents(events FileEvents) Option {
	return func(c *sinkConfig) {
		c.events = events
	}
}

// WithFileMode 设置日志文件权限
//
// 默认 0600。仅允许权限位（0000~0777），不允许文件类型位或
// setuid/setgid。
func WithFileMode(mode os.FileMode) Option {
	return func(c *sinkConfig) {
		c.fileMode = mode
	}
}

// WithoutLocking 用空锁替换互斥锁
//
// 仅当调用方保证单线程或外部串行化访问时使用；并发调用下
// 行为未定义。
func WithoutLocking() Option {
	return func(c *sinkConfig) {
		c.locker = nopLocker{}
	}
}

// WithObserver 设置轮转观测回调
func WithObserver(observer Observer) Option {
	return func(c *sinkConfig) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// Sink 按天定时轮转的日志文件输出器
//
// 当前打开文件的唯一所有者。所有可变状态（下一次轮转时刻、
// 打开文件身份）由单一锁边界保护，写入与轮转互斥且全序，
// 调用方在任意时刻观察到单一逻辑文件。
type Sink struct {
	mu     sync.Locker
	closed atomic.Bool

	baseName string
	dir      string // 清扫目录（baseName 的目录部分）
	stem     string // 清扫匹配用 stem（baseName 的文件名部分）
	ext      string
	calc     FilenameCalc
	truncate bool
	maxFiles int
	loc      *time.Location
	clock    func() time.Time
	observer Observer

	sched *rotationSchedule
	file  *fileHandle
}

var _ Rotator = (*Sink)(nil)

// NewSink 创建每日轮转输出器
//
// 校验轮转时刻，计算"现在"对应的文件名并打开（按 truncate 配置），
// 武装轮转触发器；启用保留时执行一次启动清扫。
//
// 配置无效时（轮转时刻越界、MaxFiles 越界、FileMode 非法、文件名
// 为空或格式非法）返回错误且不创建任何文件。
func NewSink(filename string, opts ...Option) (*Sink, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := sinkConfig{
		calc:     DailyNamer{},
		loc:      time.Local,
		clock:    time.Now,
		fileMode: defaultFileMode,
		locker:   &sync.Mutex{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateSinkConfig(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	base := filepath.Base(safePath)
	stem, ext := xfile.SplitExt(base)

	now := cfg.clock()
	sched, err := newRotationSchedule(cfg.hour, cfg.minute, cfg.loc, now)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		mu:       cfg.locker,
		baseName: safePath,
		dir:      filepath.Dir(safePath),
		stem:     stem,
		ext:      ext,
		calc:     cfg.calc,
		truncate: cfg.truncate,
		maxFiles: cfg.maxFiles,
		loc:      cfg.loc,
		clock:    cfg.clock,
		observer: cfg.observer,
		sched:    sched,
		file:     &fileHandle{mode: cfg.fileMode, events: cfg.events},
	}

	name := s.calc.CalcFilename(s.baseName, now.In(s.loc))
	if err := s.file.open(name, s.truncate); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFile, name, err)
	}

	if s.maxFiles > 0 {
		s.sweepLocked(now)
	}

	return s, nil
}

// validateSinkConfig 校验构造配置
func validateSinkConfig(cfg *sinkConfig) error {
	if cfg.hour < 0 || cfg.hour > 23 || cfg.minute < 0 || cfg.minute > 59 {
		return fmt.Errorf("%w: got %02d:%02d, want 00:00~23:59", ErrInvalidRotationTime, cfg.hour, cfg.minute)
	}
	if cfg.maxFiles < 0 || cfg.maxFiles > maxRetentionDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxFiles, cfg.maxFiles, maxRetentionDays)
	}
	// FileMode 仅允许权限位（低 9 位），拒绝文件类型位、setuid/setgid 等
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.fileMode)
	}
	return nil
}

// WriteAt 写入一条带时间戳的已格式化记录
//
// 轮转判定使用记录自身的时间戳 t：若 t 已到达计划轮转时刻，先切换
// 到按 t 命名的新文件并推进触发器，再写入记录。轮转发生且启用保留
// 时，写入后删除恰好过期的单个文件——删除失败（文件不存在除外）
// 会从本次调用返回 [ErrRetentionDelete]，此时记录本身已写入成功。
func (s *Sink) WriteAt(t time.Time, p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return 0, ErrClosed
	}

	rotated := false
	if s.sched.shouldRotate(t) {
		name := s.calc.CalcFilename(s.baseName, t.In(s.loc))
		if err := s.file.open(name, s.truncate); err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrOpenFile, name, err)
		}
		s.sched.advance()
		rotated = true
	}

	n, err := s.file.write(p)
	if err != nil {
		return n, err
	}
	if s.observer != nil {
		s.observer.ObserveWrite(n)
		if rotated {
			s.observer.ObserveRotation()
		}
	}

	// 清理放在写入之后：删除失败会使调用整体报错，但记录已持久化。
	if rotated && s.maxFiles > 0 {
		if err := s.removeCutoffLocked(t); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Write 实现 io.Writer 接口
//
// 记录时间戳取注入时钟的当前时间。作为 slog 等日志库的输出目标时
// 走这条路径。
func (s *Sink) Write(p []byte) (int, error) {
	return s.WriteAt(s.clock(), p)
}

// Rotate 手动触发轮转
//
// 切换到按当前时钟时刻命名的新文件（当天内手动轮转会重新打开同名
// 文件）。计划轮转时刻已到时顺带推进触发器；启用保留时执行轮转后
// 删除。
func (s *Sink) Rotate() error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}

	now := s.clock()
	name := s.calc.CalcFilename(s.baseName, now.In(s.loc))
	if err := s.file.open(name, s.truncate); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpenFile, name, err)
	}
	if s.sched.shouldRotate(now) {
		s.sched.advance()
	}
	if s.observer != nil {
		s.observer.ObserveRotation()
	}

	if s.maxFiles > 0 {
		return s.removeCutoffLocked(now)
	}
	return nil
}

// Flush 刷出当前文件的用户态写缓冲
func (s *Sink) Flush() error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}
	return s.file.flush()
}

// Filename 返回当前打开日志文件的路径
//
// 与写入和轮转在同一锁边界下，返回值对应某个一致的瞬间。
func (s *Sink) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.filename()
}

// Close 关闭输出器，刷出缓冲并释放文件句柄
//
// 关闭后调用 Write、WriteAt、Rotate、Flush 返回 [ErrClosed]，
// 重复调用 Close 也返回 [ErrClosed]。
func (s *Sink) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.close()
}

// sweepLocked 执行启动清扫（调用方持锁或尚未发布 Sink）。
//
// 截止日期取 now - MaxFiles*24h 的本地日期。清扫始终按固定日期
// 后缀形状匹配（与 DailyNamer 的输出一致），Pattern 策略的历史
// 文件不会被命中。
func (s *Sink) sweepLocked(now time.Time) {
	cutoff := now.Add(-time.Duration(s.maxFiles) * 24 * time.Hour)
	cutoffDate := dailyDate(cutoff.In(s.loc))

	removed := sweepObsolete(s.dir, s.stem, s.ext, cutoffDate)
	if removed > 0 && s.observer != nil {
		s.observer.ObserveRetentionDelete(removed)
	}
}

// removeCutoffLocked 轮转后删除恰好过期的单个文件（调用方持锁）。
func (s *Sink) removeCutoffLocked(t time.Time) error {
	cutoff := t.Add(-time.Duration(s.maxFiles) * 24 * time.Hour)
	removed, err := removeCutoffFile(s.calc, s.baseName, cutoff.In(s.loc))
	if err != nil {
		return err
	}
	if removed && s.observer != nil {
		s.observer.ObserveRetentionDelete(1)
	}
	return nil
}
