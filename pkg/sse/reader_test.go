package sse_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/sse"
)

// countingReader records how many times Read was called on the wrapped source.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func collect(r *sse.Reader) ([]*sse.Event, error) {
	var events []*sse.Event
	for ev, err := range r.Events() {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

var _ = Describe("Reader", func() {
	Describe("Next", func() {
		Context("with OpenAI-style streams", func() {
			It("decodes data payloads and stops at the sentinel", func() {
				input := "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n" +
					"data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n" +
					"data: [DONE]\n\n"
				r := sse.NewReader(strings.NewReader(input))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Done).To(BeFalse())
				Expect(string(ev.Data)).To(Equal(`{"choices":[{"delta":{"content":"Hello"}}]}`))

				ev, err = r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(string(ev.Data)).To(ContainSubstring(" world"))

				ev, err = r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Done).To(BeTrue())

				ev, err = r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).To(BeNil())
			})

			It("does not read past the sentinel", func() {
				// One byte per Read makes every extra read observable.
				src := &countingReader{r: iotest.OneByteReader(strings.NewReader("data: [DONE]\ndata: {\"late\":true}\n"))}
				r := sse.NewReader(src)

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Done).To(BeTrue())
				readsAtDone := src.reads

				ev, err = r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).To(BeNil())
				Expect(src.reads).To(Equal(readsAtDone))
			})
		})

		Context("with Responses-style streams", func() {
			It("drops event name lines and keeps data", func() {
				input := "event: response.output_text.delta\n" +
					"data: {\"type\":\"response.output_text.delta\",\"delta\":\"Hi\"}\n\n" +
					"event: response.completed\n" +
					"data: {\"type\":\"response.completed\"}\n\n"
				events, err := collect(sse.NewReader(strings.NewReader(input)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(2))
				Expect(string(events[0].Data)).To(ContainSubstring(`"delta":"Hi"`))
				Expect(string(events[1].Data)).To(ContainSubstring("response.completed"))
			})
		})

		Context("with line framing variations", func() {
			It("ignores comments and blank lines", func() {
				input := ": keep-alive\n\n\n: another\ndata: {\"n\":1}\n"
				events, err := collect(sse.NewReader(strings.NewReader(input)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(1))
				Expect(string(events[0].Data)).To(Equal(`{"n":1}`))
			})

			It("does not require blank frame separators", func() {
				input := "data: {\"n\":1}\ndata: {\"n\":2}\ndata: {\"n\":3}\n"
				events, err := collect(sse.NewReader(strings.NewReader(input)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(3))
			})

			It("handles data with no space after the colon", func() {
				events, err := collect(sse.NewReader(strings.NewReader("data:{\"n\":1}\n")))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(1))
				Expect(string(events[0].Data)).To(Equal(`{"n":1}`))
			})

			It("tolerates CRLF line endings", func() {
				input := "data: {\"n\":1}\r\n\r\ndata: [DONE]\r\n"
				events, err := collect(sse.NewReader(strings.NewReader(input)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(2))
				Expect(string(events[0].Data)).To(Equal(`{"n":1}`))
				Expect(events[1].Done).To(BeTrue())
			})

			It("ignores id, retry and unknown fields", func() {
				input := "id: 7\nretry: 3000\nfoo: bar\ndata: {\"n\":1}\n"
				events, err := collect(sse.NewReader(strings.NewReader(input)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(1))
			})

			It("reassembles lines split across reads", func() {
				input := "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\ndata: [DONE]\n"
				r := sse.NewReader(iotest.OneByteReader(strings.NewReader(input)))
				events, err := collect(r)
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(2))
				Expect(string(events[0].Data)).To(ContainSubstring(`"content":"x"`))
			})

			It("processes a final line without a terminator", func() {
				events, err := collect(sse.NewReader(strings.NewReader("data: {\"n\":1}")))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(1))
			})
		})

		Context("with malformed events", func() {
			It("skips and logs payloads that are not JSON", func() {
				var logs bytes.Buffer
				l := logger.New(logger.WithWriter(&logs), logger.WithJSON(true))
				input := "data: {not json\n\ndata: {\"n\":2}\n\ndata: [DONE]\n"

				events, err := collect(sse.NewReader(strings.NewReader(input), sse.WithLogger(l)))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(2))
				Expect(string(events[0].Data)).To(Equal(`{"n":2}`))
				Expect(events[1].Done).To(BeTrue())
				Expect(logs.String()).To(ContainSubstring("skipping malformed stream event"))
			})

			It("skips empty data payloads", func() {
				events, err := collect(sse.NewReader(strings.NewReader("data:\n\ndata: \n\n")))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(BeEmpty())
			})
		})

		Context("with source errors", func() {
			It("propagates transport failures", func() {
				boom := errors.New("connection reset")
				src := io.MultiReader(strings.NewReader("data: {\"n\":1}\n"), iotest.ErrReader(boom))
				r := sse.NewReader(src)

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(string(ev.Data)).To(Equal(`{"n":1}`))

				_, err = r.Next()
				Expect(err).To(MatchError(boom))
			})

			It("reports lines larger than the configured maximum", func() {
				long := "data: \"" + strings.Repeat("a", 256) + "\"\n"
				r := sse.NewReader(strings.NewReader(long), sse.WithMaxLineSize(64))
				_, err := r.Next()
				Expect(err).To(HaveOccurred())
			})
		})

		Context("edge cases", func() {
			It("returns nil on empty input", func() {
				ev, err := sse.NewReader(strings.NewReader("")).Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).To(BeNil())
			})

			It("ends quietly when the source closes without a sentinel", func() {
				events, err := collect(sse.NewReader(strings.NewReader("data: {\"n\":1}\n\n")))
				Expect(err).NotTo(HaveOccurred())
				Expect(events).To(HaveLen(1))
				Expect(events[0].Done).To(BeFalse())
			})
		})
	})

	Describe("WithTee", func() {
		It("forwards raw lines verbatim", func() {
			var dst bytes.Buffer
			input := ": comment\nevent: x\ndata: {\"n\":1}\n\ndata: [DONE]\n"
			_, err := collect(sse.NewReader(strings.NewReader(input), sse.WithTee(&dst)))
			Expect(err).NotTo(HaveOccurred())
			Expect(dst.String()).To(Equal(input))
		})

		It("keeps CRLF terminators and a missing final newline", func() {
			var dst bytes.Buffer
			input := "event: x\r\ndata: {\"n\":1}\r\n\r\ndata: {\"n\":2}"
			events, err := collect(sse.NewReader(strings.NewReader(input), sse.WithTee(&dst)))
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(2))
			Expect(string(events[1].Data)).To(Equal(`{"n":2}`))
			Expect(dst.String()).To(Equal(input))
		})
	})
})
