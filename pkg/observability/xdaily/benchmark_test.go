package xdaily

import (
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// 性能测试（Benchmark）
// =============================================================================

// BenchmarkWrite 测试写入性能
//
// 测量单次写入操作的性能，包括轮转判定和缓冲写入的开销
func BenchmarkWrite(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "bench.log")

	s, err := NewSink(filename)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	data := []byte("benchmark log line with some content\n")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.Write(data)
	}
}

// BenchmarkWriteParallel 测试并发写入性能
//
// 测量多个 goroutine 并发写入时的性能，验证互斥锁边界的开销
func BenchmarkWriteParallel(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "bench_parallel.log")

	s, err := NewSink(filename)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	data := []byte("benchmark log line with some content\n")

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Write(data)
		}
	})
}

// BenchmarkWriteWithoutLocking 测试空锁模式写入性能
//
// 与 BenchmarkWrite 对比，测量互斥锁在热路径上的开销
func BenchmarkWriteWithoutLocking(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "bench_nolock.log")

	s, err := NewSink(filename, WithoutLocking())
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	data := []byte("benchmark log line with some content\n")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.Write(data)
	}
}

// BenchmarkWriteAt 测试带时间戳写入的性能
//
// 测量记录时间戳路径的开销（跳过时钟取值）
func BenchmarkWriteAt(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "bench_writeat.log")

	s, err := NewSink(filename)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	data := []byte("benchmark log line with some content\n")
	ts := time.Now()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.WriteAt(ts, data)
	}
}

// BenchmarkCalcFilenameDaily 测试固定日期后缀命名的性能
func BenchmarkCalcFilenameDaily(b *testing.B) {
	ts := time.Date(2024, 3, 7, 22, 0, 0, 0, time.UTC)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		DailyNamer{}.CalcFilename("/var/log/app.log", ts)
	}
}

// BenchmarkCalcFilenamePattern 测试时间布局命名的性能
func BenchmarkCalcFilenamePattern(b *testing.B) {
	ts := time.Date(2024, 3, 7, 22, 0, 0, 0, time.UTC)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		PatternNamer{}.CalcFilename("/var/log/app-2006-01-02.log", ts)
	}
}

// BenchmarkNewSink 测试创建输出器的性能
//
// 测量初始化开销，包括路径检查、目录创建、触发器武装和文件打开
func BenchmarkNewSink(b *testing.B) {
	tmpDir := b.TempDir()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		filename := filepath.Join(tmpDir, "bench_new.log")
		s, err := NewSink(filename)
		if err != nil {
			b.Fatal(err)
		}
		s.Close()
	}
}

// BenchmarkRotate 测试手动轮转性能
//
// 测量轮转操作的开销（刷出缓冲、关闭旧文件、打开新文件）
func BenchmarkRotate(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "bench_rotate.log")

	s, err := NewSink(filename)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	s.Write([]byte("initial data\n"))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.Rotate()
	}
}
