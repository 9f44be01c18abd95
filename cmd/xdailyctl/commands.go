package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/logkit/pkg/config/xconf"
	"github.com/omeyang/logkit/pkg/observability/xdaily"
)

// usageError 表示参数错误，run 将其映射到退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createWriteCommand(),
		createSweepCommand(),
		createNameCommand(),
	}
}

// createWriteCommand 创建 write 子命令。
func createWriteCommand() *cli.Command {
	return &cli.Command{
		Name:    "write",
		Aliases: []string{"w"},
		Usage:   "从标准输入读取并写入轮转日志文件",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "基础日志文件路径",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "配置子树路径（如 logging.daily）",
			},
			&cli.StringFlag{
				Name:  "rotation-at",
				Usage: "每日轮转时刻 HH:MM",
				Value: "00:00",
			},
			&cli.BoolFlag{
				Name:  "truncate",
				Usage: "轮转打开新文件时清空",
			},
			&cli.IntFlag{
				Name:  "max-files",
				Usage: "保留的轮转文件天数（0 表示不清理）",
			},
			&cli.BoolFlag{
				Name:  "pattern",
				Usage: "文件名部分视为 Go 时间布局",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "IANA 时区名称（默认本地时区）",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := resolveSinkConfig(cmd)
			if err != nil {
				return err
			}
			return cmdWrite(ctx, cfg, os.Stdin, os.Stdout)
		},
	}
}

// createSweepCommand 创建 sweep 子命令。
func createSweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "对历史轮转文件执行一次保留清扫",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "基础日志文件路径",
			},
			&cli.IntFlag{
				Name:  "max-files",
				Usage: "保留天数（大于 0）",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "IANA 时区名称（默认本地时区）",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			file := cmd.String("file")
			if file == "" {
				return usageErrorf("sweep 命令需要 --file 参数")
			}
			maxFiles := cmd.Int("max-files")
			if maxFiles <= 0 {
				return usageErrorf("sweep 命令需要大于 0 的 --max-files 参数")
			}
			loc, err := resolveLocation(cmd.String("location"))
			if err != nil {
				return err
			}
			return cmdSweep(file, maxFiles, loc, os.Stdout)
		},
	}
}

// createNameCommand 创建 name 子命令。
func createNameCommand() *cli.Command {
	return &cli.Command{
		Name:  "name",
		Usage: "打印给定时刻对应的轮转文件名",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "基础日志文件路径",
			},
			&cli.StringFlag{
				Name:  "at",
				Usage: "时刻（RFC3339，默认当前时间）",
			},
			&cli.BoolFlag{
				Name:  "pattern",
				Usage: "文件名部分视为 Go 时间布局",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "IANA 时区名称（默认本地时区）",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			file := cmd.String("file")
			if file == "" {
				return usageErrorf("name 命令需要 --file 参数")
			}

			at := time.Now()
			if atFlag := cmd.String("at"); atFlag != "" {
				parsed, err := time.Parse(time.RFC3339, atFlag)
				if err != nil {
					return usageErrorf("--at 不是合法的 RFC3339 时刻: %q", atFlag)
				}
				at = parsed
			}

			loc, err := resolveLocation(cmd.String("location"))
			if err != nil {
				return err
			}

			return cmdName(file, cmd.Bool("pattern"), at.In(loc), os.Stdout)
		},
	}
}

// resolveSinkConfig 从 --config 或命令行参数构建输出器配置。
// 两种来源互斥，--config 优先级更高时容易掩盖参数拼写错误，这里直接拒绝混用。
func resolveSinkConfig(cmd *cli.Command) (*xconf.SinkConfig, error) {
	configPath := cmd.String("config")
	file := cmd.String("file")

	if configPath != "" {
		if file != "" {
			return nil, usageErrorf("--config 与 --file 不能同时使用")
		}
		cfg, err := xconf.Load(configPath, xconf.WithKey(cmd.String("key")))
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if file == "" {
		return nil, usageErrorf("write 命令需要 --file 或 --config 参数")
	}

	hour, minute, err := parseRotationAt(cmd.String("rotation-at"))
	if err != nil {
		return nil, err
	}

	return &xconf.SinkConfig{
		Filename:       file,
		RotationHour:   hour,
		RotationMinute: minute,
		Truncate:       cmd.Bool("truncate"),
		MaxFiles:       cmd.Int("max-files"),
		Pattern:        cmd.Bool("pattern"),
		Location:       cmd.String("location"),
	}, nil
}

// parseRotationAt 解析 "HH:MM" 格式的轮转时刻。
// 只校验格式，数值范围留给 xdaily 校验。
func parseRotationAt(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, usageErrorf("--rotation-at 格式应为 HH:MM，收到 %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, usageErrorf("--rotation-at 格式应为 HH:MM，收到 %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, usageErrorf("--rotation-at 格式应为 HH:MM，收到 %q", s)
	}
	return hour, minute, nil
}

// resolveLocation 解析 IANA 时区名称，空串表示本地时区。
func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, usageErrorf("无法解析时区 %q: %v", name, err)
	}
	return loc, nil
}

// cmdWrite 逐行读取输入写入输出器，EOF 或 ctx 取消后关闭。
func cmdWrite(ctx context.Context, cfg *xconf.SinkConfig, in io.Reader, out io.Writer) error {
	sink, err := cfg.NewSink()
	if err != nil {
		return err
	}

	lines := 0
	bytes := 0

	scanner := bufio.NewScanner(in)
	// 单行上限 1MB，超长行直接报错而不是静默截断
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	// scanner.Bytes() 指向扫描器内部缓冲，追加换行前先拷贝
	line := make([]byte, 0, 64*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line = append(line[:0], scanner.Bytes()...)
		line = append(line, '\n')
		n, err := sink.Write(line)
		if err != nil {
			_ = sink.Close()
			return err
		}
		lines++
		bytes += n
	}

	if err := sink.Close(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}

	fmt.Fprintf(out, "已写入 %d 行（%d 字节）\n", lines, bytes)
	return nil
}

// cmdSweep 执行一次离线保留清扫。
func cmdSweep(file string, maxFiles int, loc *time.Location, out io.Writer) error {
	removed, err := xdaily.Sweep(file, maxFiles, loc, time.Now())
	if err != nil {
		if errors.Is(err, xdaily.ErrInvalidMaxFiles) {
			return usageErrorf("%v", err)
		}
		return err
	}
	fmt.Fprintf(out, "已删除 %d 个过期文件\n", removed)
	return nil
}

// cmdName 打印给定时刻对应的轮转文件名。
func cmdName(file string, pattern bool, at time.Time, out io.Writer) error {
	var calc xdaily.FilenameCalc = xdaily.DailyNamer{}
	if pattern {
		calc = xdaily.PatternNamer{}
	}
	fmt.Fprintln(out, calc.CalcFilename(file, at))
	return nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// write 命令阻塞在标准输入时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}

// isCLIUsageError 识别 urfave/cli 框架产生的参数类错误。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "No help topic for")
}
