// Package xfile 提供日志文件路径处理的基础工具。
//
// 三类能力：
//   - [SanitizePath]: 路径格式净化（空路径、空字节、目录路径、相对路径穿越）
//   - [EnsureDir] / [EnsureDirWithPerm]: 确保文件父目录存在
//   - [SplitExt]: 按最后一个扩展名拆分文件名（stem + ext）
//
// 安全边界：SanitizePath 仅做格式净化，不做目录隔离。轮转组件假定
// 基础文件路径来自可信的构造方配置，而非不可信的外部输入。
package xfile
