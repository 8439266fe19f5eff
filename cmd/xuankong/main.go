// Package main 玄空飞星命令行工具
package main

import (
	"fmt"
	"os"
)

// Version 版本信息，构建时注入
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
