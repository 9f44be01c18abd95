// xdailyctl 是每日轮转日志输出器的命令行工具。
//
// 用法:
//
//	xdailyctl <命令> [命令参数]
//
// 命令:
//
//	write          从标准输入读取并写入轮转日志文件
//	sweep          对历史轮转文件执行一次保留清扫
//	name           打印给定时刻对应的轮转文件名
//	help           显示帮助信息
//
// write 命令说明:
//
//	逐行读取标准输入写入输出器，EOF 后刷出缓冲并关闭。
//	配置来源二选一：--config 指定 YAML/JSON 配置文件（可配合
//	--key 取子树），或直接用 --file 等命令行参数。
//
// sweep 命令说明:
//
//	不打开任何文件，只删除固定日期后缀形状、日期不晚于
//	now-max-files*24h 的匹配文件。适合定时任务做离线清理。
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（文件打开失败、清扫失败等）
//	2: 参数错误（轮转时刻格式非法、缺少必需参数、未知命令等）
//
// 示例:
//
//	tail -f access.log | xdailyctl write -f /var/log/app.log --max-files 7
//	xdailyctl write --config logkit.yaml --key logging.daily
//	xdailyctl sweep -f /var/log/app.log --max-files 7
//	xdailyctl name -f /var/log/app.log --at 2024-03-07T00:00:01Z
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:           "xdailyctl",
		Usage:          "每日轮转日志输出器命令行工具",
		Version:        fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"LogKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `xdailyctl 把每日轮转输出器的能力暴露给 shell：
管道写入、离线清扫、文件名预演。

主要命令:
  write               从标准输入读取并写入轮转日志文件
    --file, -f        基础日志文件路径
    --config, -c      配置文件路径（YAML/JSON）
    --key             配置子树路径（如 logging.daily）
    --rotation-at     每日轮转时刻 HH:MM（默认 00:00）
    --truncate        轮转打开新文件时清空
    --max-files       保留的轮转文件天数（0 表示不清理）
    --pattern         文件名部分视为 Go 时间布局
    --location        IANA 时区名称（默认本地时区）

  sweep               对历史轮转文件执行一次保留清扫
    --file, -f        基础日志文件路径
    --max-files       保留天数（必填，大于 0）
    --location        IANA 时区名称

  name                打印给定时刻对应的轮转文件名
    --file, -f        基础日志文件路径
    --at              时刻（RFC3339，默认当前时间）
    --pattern         文件名部分视为 Go 时间布局
    --location        IANA 时区名称`,
	}
}

func run(args []string) int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
