package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

const replPrompt = "> "

// lineInput 终端行读取的抽象：readline 不可用时退回朴素 stdin 读取。
// lineInput abstracts terminal line reading: when readline is unavailable it
// falls back to plain stdin reads.
type lineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type readlineInput struct {
	instance *readline.Instance
}

// newReadlineInput 带历史文件的行编辑器。历史目录按需创建。
// newReadlineInput is the line editor with a history file. The history
// directory is created on demand.
func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		InterruptPrompt:   "^C",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// basicLineInput 无行编辑的回退实现，onboarding 的脚本化测试也用它。
// basicLineInput is the fallback without line editing; scripted onboarding
// tests use the same shape.
type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Close() error { return nil }

// newLineInput 优先 readline；失败时返回回退实现和导致回退的错误，
// 调用方只提示一次。
// newLineInput prefers readline; on failure it returns the fallback together
// with the error that caused it, reported once by the caller.
func newLineInput(historyPath string) (lineInput, error) {
	readlineReader, err := newReadlineInput(historyPath)
	if err == nil {
		return readlineReader, nil
	}
	return newBasicLineInput(os.Stdin, os.Stdout), err
}
