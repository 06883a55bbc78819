// Package discordtest serves a fake Discord REST API so handlers can be
// exercised with a real discordgo session.
package discordtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

var apiPrefix = regexp.MustCompile(`^/api/v\d+`)

// Request is one recorded REST call. Path has the /api/vN prefix removed.
type Request struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type failure struct {
	status  int
	message string
}

// Server records requests and answers them with a minimal JSON object.
type Server struct {
	mu       sync.Mutex
	requests []Request
	failures map[string]failure
	seq      int
}

// NewSession returns a session whose REST calls all reach a local server.
func NewSession(t testing.TB) (*discordgo.Session, *Server) {
	t.Helper()

	srv := &Server{failures: make(map[string]failure)}
	ts := httptest.NewServer(http.HandlerFunc(srv.serve))
	t.Cleanup(ts.Close)

	target, err := url.Parse(ts.URL)
	require.NoError(t, err)

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.Client = &http.Client{Transport: rewrite{target: target}}
	session.ShouldRetryOnRateLimit = false
	session.MaxRestRetries = 0
	return session, srv
}

// Fail makes every request whose path contains fragment answer with status.
func (s *Server) Fail(fragment string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[fragment] = failure{status: status, message: message}
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := Request{Method: r.Method, Path: apiPrefix.ReplaceAllString(r.URL.Path, "")}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.seq++
	seq := s.seq
	var fail *failure
	for fragment, f := range s.failures {
		if strings.Contains(req.Path, fragment) {
			f := f
			fail = &f
			break
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail != nil {
		w.WriteHeader(fail.status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 0, "message": fail.message})
		return
	}
	_, _ = fmt.Fprintf(w, `{"id":"%d"}`, seq)
}

type rewrite struct {
	target *url.URL
}

func (rt rewrite) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}
