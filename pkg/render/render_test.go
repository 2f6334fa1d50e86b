package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing/iotest"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/highlight"
	"github.com/papercomputeco/codestream/pkg/render"
)

// responsesStream encodes each delta as a Responses text event.
func responsesStream(deltas ...string) string {
	var sb strings.Builder
	sb.WriteString("event: response.created\ndata: {\"type\":\"response.created\"}\n\n")
	for _, d := range deltas {
		payload, _ := json.Marshal(map[string]string{"type": "response.output_text.delta", "delta": d})
		fmt.Fprintf(&sb, "event: response.output_text.delta\ndata: %s\n\n", payload)
	}
	sb.WriteString("data: [DONE]\n\n")
	return sb.String()
}

// chatStream encodes each delta as a Chat Completions chunk.
func chatStream(deltas ...string) string {
	var sb strings.Builder
	for _, d := range deltas {
		payload, _ := json.Marshal(map[string]any{
			"choices": []any{map[string]any{"delta": map[string]string{"content": d}}},
		})
		fmt.Fprintf(&sb, "data: %s\n\n", payload)
	}
	sb.WriteString("data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\ndata: [DONE]\n\n")
	return sb.String()
}

func withoutFenceLines(s string) string {
	var out []string
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.HasPrefix(line, "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "")
}

var _ = Describe("Pipeline", func() {
	var (
		out strings.Builder
		ctx context.Context
	)

	BeforeEach(func() {
		out.Reset()
		ctx = context.Background()
	})

	Describe("Run", func() {
		It("writes plain text as it arrives and returns it", func() {
			p := render.New(&out)
			text, err := p.Run(ctx, strings.NewReader(responsesStream("Hello", ", ", "world")))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Hello, world"))
			Expect(out.String()).To(Equal("Hello, world"))
		})

		It("highlights code blocks split across deltas", func() {
			deltas := []string{"Intro text\n``", "`py", "thon\nx = 1\n", "``", "`\nOutro."}
			p := render.New(&out, render.WithHighlighter(highlight.Highlight))

			text, err := p.Run(ctx, strings.NewReader(chatStream(deltas...)))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(strings.Join(deltas, "")))

			Expect(out.String()).NotTo(ContainSubstring("```"))
			Expect(out.String()).To(ContainSubstring("\x1b["))
			Expect(ansi.Strip(out.String())).To(Equal("Intro text\nx = 1\nOutro."))
		})

		It("reproduces the text minus fence lines under byte-at-a-time reads", func() {
			deltas := []string{"Use `go` here.\n", "```go\nfunc main() {\n", "\tprintln(1)\n}\n```", "\nDone\n"}
			p := render.New(&out, render.WithHighlighter(highlight.Highlight))

			text, err := p.Run(ctx, iotest.OneByteReader(strings.NewReader(responsesStream(deltas...))))
			Expect(err).NotTo(HaveOccurred())
			Expect(ansi.Strip(out.String())).To(Equal(withoutFenceLines(text)))
		})

		It("flushes an unterminated code block at the end of the stream", func() {
			p := render.New(&out)
			_, err := p.Run(ctx, strings.NewReader(chatStream("```js\nlet a", " = 1")))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("let a = 1"))
		})

		It("ignores events after the done sentinel", func() {
			stream := responsesStream("kept") + "data: {\"delta\":\"dropped\"}\n\n"
			text, err := render.New(&out).Run(ctx, strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("kept"))
		})

		It("skips malformed events and keeps going", func() {
			stream := "data: {\"delta\":\"a\"}\n\ndata: {oops\n\ndata: {\"delta\":\"b\"}\n\n"
			text, err := render.New(&out).Run(ctx, strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("ab"))
		})

		It("stops at response.completed without a done sentinel", func() {
			stream := "data: {\"type\":\"response.output_text.delta\",\"delta\":\"kept\\n\"}\n\n" +
				"data: {\"type\":\"response.completed\",\"response\":{\"status\":\"completed\"}}\n\n" +
				"data: {\"type\":\"response.output_text.delta\",\"delta\":\"dropped\"}\n\n"

			text, err := render.New(&out).Run(ctx, strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("kept\n"))
			Expect(out.String()).To(Equal("kept\n"))
		})

		It("stops at a finish reason and keeps text in the same chunk", func() {
			stream := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"b\"},\"finish_reason\":\"stop\"}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"c\"}}]}\n\n"

			text, err := render.New(&out).Run(ctx, strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("ab"))
			Expect(out.String()).To(Equal("ab"))
		})

		It("returns read errors after flushing what arrived", func() {
			boom := errors.New("connection reset")
			body := io.MultiReader(
				strings.NewReader("data: {\"delta\":\"``\"}\n\n"),
				iotest.ErrReader(boom),
			)

			text, err := render.New(&out).Run(ctx, body)
			Expect(err).To(MatchError(boom))
			Expect(text).To(Equal("``"))
			Expect(out.String()).To(Equal("``"))
		})

		It("stops on cancellation", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := render.New(&out).Run(cctx, strings.NewReader(responsesStream("a", "b")))
			Expect(err).To(MatchError(context.Canceled))
		})

		It("copies raw lines to the tee", func() {
			var raw strings.Builder
			stream := responsesStream("x")
			_, err := render.New(&out, render.WithTee(&raw)).Run(ctx, strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(raw.String()).To(HavePrefix("event: response.created\n"))
			Expect(raw.String()).To(ContainSubstring("data: [DONE]\n"))
		})
	})

	Describe("RenderMarkdown", func() {
		It("renders a document with code blocks", func() {
			doc := "# Title\n\n```bash\necho hi\n```\n\nbye\n"
			err := render.New(&out, render.WithHighlighter(highlight.Highlight)).RenderMarkdown(strings.NewReader(doc))
			Expect(err).NotTo(HaveOccurred())
			Expect(ansi.Strip(out.String())).To(Equal("# Title\n\necho hi\n\nbye\n"))
		})

		It("passes code through unchanged without a highlighter", func() {
			doc := "```\nplain\n```\n"
			Expect(render.New(&out).RenderMarkdown(iotest.HalfReader(strings.NewReader(doc)))).To(Succeed())
			Expect(out.String()).To(Equal("plain\n"))
		})
	})
})
