package commands

import (
	"context"
	"fmt"
	"strings"
)

// registerBuiltins registers all built-in commands
func registerBuiltins(m *Manager) {
	m.Register(&Command{
		Name:        "查看表情包",
		Description: "查看所有可用表情包类别",
		Handler:     handleListCategories,
	})

	m.Register(&Command{
		Name:        "上传表情包",
		Description: "上传表情包到指定类别",
		Usage:       "[类别名称]",
		Handler:     handleRequestUpload,
	})

	m.Register(&Command{
		Name:        "help",
		Description: "显示指令帮助",
		Handler:     handleHelp,
	})
}

// handleListCategories prints every known category display name.
func handleListCategories(ctx context.Context, args *Args) *Result {
	var text strings.Builder
	text.WriteString("当前支持的表情包类别：\n")
	for _, name := range args.Provider.CategoryNames() {
		text.WriteString("- ")
		text.WriteString(name)
		text.WriteString("\n")
	}
	return &Result{Text: strings.TrimRight(text.String(), "\n")}
}

// handleRequestUpload validates the category and opens an upload session.
func handleRequestUpload(ctx context.Context, args *Args) *Result {
	category := strings.TrimSpace(args.RawArgs)
	if category == "" {
		return &Result{Text: "请指定要上传的表情包类别，格式：/上传表情包 " + args.Usage}
	}

	if _, ok := args.Provider.ResolveCategory(category); !ok {
		return &Result{Text: fmt.Sprintf("无效的表情包类别：%s\n使用/查看表情包查看可用类别", category)}
	}

	args.Provider.OpenUploadSession(args.SessionKey, category)
	return &Result{Text: fmt.Sprintf("请于%d秒内发送要添加到【%s】类别的图片（支持多图）",
		args.Provider.UploadWindowSeconds(), category)}
}

// handleHelp lists all commands.
func handleHelp(ctx context.Context, args *Args) *Result {
	var text strings.Builder
	text.WriteString("可用指令：\n")
	for _, cmd := range args.Manager.List() {
		text.WriteString("/")
		text.WriteString(cmd.Name)
		if cmd.Usage != "" {
			text.WriteString(" ")
			text.WriteString(cmd.Usage)
		}
		text.WriteString(" - ")
		text.WriteString(cmd.Description)
		text.WriteString("\n")
	}
	return &Result{Text: strings.TrimRight(text.String(), "\n")}
}
