package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"panelforge/cmd"
)

func main() {
	// Ctrl-C 取消根 context，serve 优雅退出，generate 中止请求
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
