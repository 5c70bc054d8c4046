package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nexus/internal/i18n"
	"nexus/internal/profile"
	"nexus/internal/prompt"
	"nexus/internal/session"
)

// runOnboarding 逐题提问并把答案累积成一次档案更新。读取失败（EOF、中断）
// 时中止，不写入半成品档案。
// runOnboarding asks the intro questions one by one and folds the answers
// into a single profile update. A read failure (EOF, interrupt) aborts
// without writing a partial profile.
func runOnboarding(sess *session.Session, reader lineInput, out io.Writer) error {
	var update profile.Update

	for _, q := range prompt.OnboardingQuestions() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, i18n.T(q.LabelKey))
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d. %s\n", i+1, i18n.T(opt.LabelKey))
		}

		choice, err := readChoice(reader, out, len(q.Options))
		if err != nil {
			return err
		}
		q.Options[choice-1].Apply(&update)
	}

	sess.ApplyProfile(update)
	sess.FinishOnboarding()
	fmt.Fprintln(out)
	fmt.Fprintln(out, i18n.T("onboard.done"))
	return nil
}

func readChoice(reader lineInput, out io.Writer, max int) (int, error) {
	for {
		line, err := reader.ReadLine(i18n.T("onboard.pick", max))
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < 1 || n > max {
			fmt.Fprintln(out, i18n.T("onboard.invalid_choice", max))
			continue
		}
		return n, nil
	}
}
