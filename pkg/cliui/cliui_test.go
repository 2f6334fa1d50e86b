package cliui_test

import (
	"bytes"
	"errors"
	"time"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/cliui"
)

var _ = Describe("Step", func() {
	It("finishes with a check mark and the final message", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "Connecting", func() (string, error) {
			return "Streaming from responses", nil
		})
		Expect(err).NotTo(HaveOccurred())

		out := ansi.Strip(buf.String())
		Expect(out).To(HaveSuffix("\n"))
		Expect(out).To(ContainSubstring("✓ Streaming from responses ("))
	})

	It("returns the error and marks the step failed", func() {
		var buf bytes.Buffer
		boom := errors.New("status 401")
		err := cliui.Step(&buf, "Connecting", func() (string, error) {
			return "", boom
		})
		Expect(err).To(MatchError(boom))
		Expect(ansi.Strip(buf.String())).To(ContainSubstring("✗ Connecting"))
	})
})

var _ = Describe("Mark", func() {
	It("distinguishes success from failure", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("x"))).To(Equal(cliui.FailMark))
	})
})

var _ = DescribeTable("FormatDuration",
	func(d time.Duration, expected string) {
		Expect(cliui.FormatDuration(d)).To(Equal(expected))
	},
	Entry("milliseconds", 12*time.Millisecond, "12ms"),
	Entry("seconds", 3200*time.Millisecond, "3.2s"),
)
