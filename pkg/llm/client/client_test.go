package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/pkg/llm/client"
	"github.com/papercomputeco/codestream/pkg/logger"
)

type recordedRequest struct {
	path    string
	headers http.Header
	body    map[string]any
}

// upstream is a fake API that answers each path with a fixed status.
type upstream struct {
	mu       sync.Mutex
	requests []recordedRequest
	statuses map[string]int
	server   *httptest.Server
}

func newUpstream(statuses map[string]int) *upstream {
	u := &upstream{statuses: statuses}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		u.mu.Lock()
		u.requests = append(u.requests, recordedRequest{path: r.URL.Path, headers: r.Header.Clone(), body: body})
		u.mu.Unlock()

		status, ok := u.statuses[r.URL.Path]
		if !ok {
			status = http.StatusNotFound
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\n"))
	}))
	return u
}

func (u *upstream) paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(u.requests))
	for _, r := range u.requests {
		out = append(out, r.path)
	}
	return out
}

var messages = []llm.Message{
	llm.NewTextMessage(llm.RoleUser, "show me a python loop"),
}

var _ = Describe("Client", func() {
	var up *upstream

	AfterEach(func() {
		if up != nil {
			up.server.Close()
		}
	})

	newClient := func(endpoint client.Endpoint, logs io.Writer) *client.Client {
		c, err := client.New(client.Config{
			BaseURL:  up.server.URL + "/v1/",
			APIKey:   "sk-test",
			Model:    "gpt-test",
			Endpoint: endpoint,
		}, client.WithLogger(logger.New(logger.WithWriter(logs))))
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("New", func() {
		It("requires an API key", func() {
			_, err := client.New(client.Config{})
			Expect(err).To(MatchError(client.ErrNoAPIKey))
		})

		It("rejects an unknown endpoint", func() {
			_, err := client.New(client.Config{APIKey: "k", Endpoint: "completions"})
			Expect(err).To(HaveOccurred())
		})

		It("applies defaults", func() {
			c, err := client.New(client.Config{APIKey: "k"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Model()).To(Equal(client.DefaultModel))
		})
	})

	Describe("Stream in auto mode", func() {
		It("uses the Responses endpoint when it succeeds", func() {
			up = newUpstream(map[string]int{"/v1/responses": http.StatusOK})
			s, err := newClient(client.EndpointAuto, io.Discard).Stream(context.Background(), messages)
			Expect(err).NotTo(HaveOccurred())
			defer s.Body.Close()

			Expect(s.Endpoint).To(Equal(client.EndpointResponses))
			Expect(up.paths()).To(Equal([]string{"/v1/responses"}))

			raw, err := io.ReadAll(s.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(ContainSubstring("[DONE]"))
		})

		It("falls back to Chat Completions on a 404 and logs a warning", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusOK})
			var logs bytes.Buffer
			s, err := newClient(client.EndpointAuto, &logs).Stream(context.Background(), messages)
			Expect(err).NotTo(HaveOccurred())
			defer s.Body.Close()

			Expect(s.Endpoint).To(Equal(client.EndpointChatCompletions))
			Expect(up.paths()).To(Equal([]string{"/v1/responses", "/v1/chat/completions"}))
			Expect(logs.String()).To(ContainSubstring("falling back"))
		})

		It("returns both failures when neither endpoint works", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusUnauthorized})
			_, err := newClient(client.EndpointAuto, io.Discard).Stream(context.Background(), messages)
			Expect(err).To(HaveOccurred())

			var statusErr *client.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("status 404"))
			Expect(err.Error()).To(ContainSubstring("status 401"))
		})

		It("does not fall back after cancellation", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusOK})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := newClient(client.EndpointAuto, io.Discard).Stream(ctx, messages)
			Expect(err).To(MatchError(context.Canceled))
			Expect(up.paths()).To(BeEmpty())
		})
	})

	Describe("Stream in a fixed mode", func() {
		It("does not fall back", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusOK})
			_, err := newClient(client.EndpointResponses, io.Discard).Stream(context.Background(), messages)

			var statusErr *client.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Endpoint).To(Equal(client.EndpointResponses))
			Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(statusErr.Body).To(ContainSubstring("nope"))
			Expect(up.paths()).To(Equal([]string{"/v1/responses"}))
		})

		It("talks to Chat Completions directly", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusOK})
			s, err := newClient(client.EndpointChatCompletions, io.Discard).Stream(context.Background(), messages)
			Expect(err).NotTo(HaveOccurred())
			defer s.Body.Close()
			Expect(s.Endpoint).To(Equal(client.EndpointChatCompletions))
		})
	})

	Describe("requests", func() {
		It("authenticate and identify themselves", func() {
			up = newUpstream(map[string]int{"/v1/responses": http.StatusOK})
			s, err := newClient(client.EndpointAuto, io.Discard).Stream(context.Background(), messages)
			Expect(err).NotTo(HaveOccurred())
			defer s.Body.Close()

			req := up.requests[0]
			Expect(req.headers.Get("Authorization")).To(Equal("Bearer sk-test"))
			Expect(req.headers.Get("Accept")).To(Equal("text/event-stream"))
			Expect(req.headers.Get("Content-Type")).To(Equal("application/json"))
			_, err = uuid.Parse(req.headers.Get("X-Request-Id"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("use each endpoint's body shape", func() {
			up = newUpstream(map[string]int{"/v1/chat/completions": http.StatusOK})
			s, err := newClient(client.EndpointAuto, io.Discard).Stream(context.Background(), messages)
			Expect(err).NotTo(HaveOccurred())
			defer s.Body.Close()

			Expect(up.requests).To(HaveLen(2))
			Expect(up.requests[0].body).To(HaveKey("input"))
			Expect(up.requests[0].body["stream"]).To(BeTrue())
			Expect(up.requests[1].body).To(HaveKey("messages"))
			Expect(up.requests[1].body["model"]).To(Equal("gpt-test"))
		})
	})
})

var _ = DescribeTable("ParseEndpoint",
	func(name string, expected client.Endpoint, ok bool) {
		e, err := client.ParseEndpoint(name)
		if !ok {
			Expect(err).To(HaveOccurred())
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(Equal(expected))
	},
	Entry("empty", "", client.EndpointAuto, true),
	Entry("auto", "auto", client.EndpointAuto, true),
	Entry("responses", "responses", client.EndpointResponses, true),
	Entry("chat completions", "chat_completions", client.EndpointChatCompletions, true),
	Entry("unknown", "messages", client.Endpoint(""), false),
)
