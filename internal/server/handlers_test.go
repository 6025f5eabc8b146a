package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/config"
	"github.com/renovalabs/insightdocs/internal/models"
	"github.com/renovalabs/insightdocs/internal/session"
)

type fakeCreds struct{}

func (fakeCreds) Check(ctx context.Context, username, password string) bool {
	return username == "admin" && password == "secret"
}

type fakeAnswerer struct {
	answer *models.Answer
	err    error
	asked  []string
}

func (f *fakeAnswerer) Answer(ctx context.Context, question string) (*models.Answer, error) {
	f.asked = append(f.asked, question)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func newTestServer(t *testing.T, pipeline Answerer) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := NewServer(fakeCreds{}, pipeline, session.NewManager(),
		&config.ServerConfig{Host: "localhost", Port: 0}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return ts, &http.Client{Jar: jar}
}

func login(t *testing.T, ts *httptest.Server, client *http.Client, user, pass string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(ts.URL+"/login", url.Values{
		"username": {user},
		"password": {pass},
	})
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestChatPage_requiresLogin(t *testing.T) {
	ts, client := newTestServer(t, &fakeAnswerer{})
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	// Redirect chain lands on the login page.
	if !strings.Contains(body, "Senha") {
		t.Errorf("expected login page, got: %s", body)
	}
}

func TestLogin_validCredentials(t *testing.T) {
	ts, client := newTestServer(t, &fakeAnswerer{})
	resp := login(t, ts, client, "admin", "secret")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Digite sua pergunta") {
		t.Errorf("expected chat page after login, got: %s", body)
	}
}

func TestLogin_invalidCredentials(t *testing.T) {
	ts, client := newTestServer(t, &fakeAnswerer{})
	resp := login(t, ts, client, "admin", "wrong")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Usuário ou senha incorretos") {
		t.Errorf("expected login error message, got: %s", body)
	}
}

func TestAsk_appendsBothTurnsAndShowsSources(t *testing.T) {
	pipeline := &fakeAnswerer{answer: &models.Answer{
		Text: "Trinta dias.",
		Sources: []models.Chunk{
			{ID: "0:0", SourcePath: "politica.pdf", Text: "..."},
			{ID: "0:1", SourcePath: "politica.pdf", Text: "..."},
		},
	}}
	ts, client := newTestServer(t, pipeline)
	login(t, ts, client, "admin", "secret").Body.Close()

	resp, err := client.PostForm(ts.URL+"/ask", url.Values{"question": {"Quantos dias de férias?"}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)

	if len(pipeline.asked) != 1 || pipeline.asked[0] != "Quantos dias de férias?" {
		t.Errorf("pipeline asked: %v", pipeline.asked)
	}
	for _, want := range []string{"Quantos dias de férias?", "Trinta dias.", "Documentos de origem", "politica.pdf"} {
		if !strings.Contains(body, want) {
			t.Errorf("chat page missing %q", want)
		}
	}
	// Duplicate source paths collapse to one entry.
	if strings.Count(body, "politica.pdf") != 1 {
		t.Errorf("expected a single source entry, got: %s", body)
	}
}

func TestAsk_pipelineErrorKeepsUserTurn(t *testing.T) {
	pipeline := &fakeAnswerer{err: fmt.Errorf("upstream unavailable")}
	ts, client := newTestServer(t, pipeline)
	login(t, ts, client, "admin", "secret").Body.Close()

	resp, err := client.PostForm(ts.URL+"/ask", url.Values{"question": {"pergunta"}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "pergunta") {
		t.Error("the question must stay in the transcript after a failure")
	}
	if !strings.Contains(body, "Não foi possível obter uma resposta") {
		t.Error("expected error banner")
	}
	if strings.Contains(body, "upstream unavailable") {
		t.Error("internal error details must not reach the page")
	}
}

func TestLogout_clearsTranscriptAndRequiresRelogin(t *testing.T) {
	pipeline := &fakeAnswerer{answer: &models.Answer{Text: "resposta"}}
	ts, client := newTestServer(t, pipeline)
	login(t, ts, client, "admin", "secret").Body.Close()

	resp, _ := client.PostForm(ts.URL+"/ask", url.Values{"question": {"primeira pergunta"}})
	resp.Body.Close()

	resp, err := client.PostForm(ts.URL+"/logout", nil)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Senha") {
		t.Error("logout should land on the login page")
	}

	resp = login(t, ts, client, "admin", "secret")
	body = readBody(t, resp)
	if strings.Contains(body, "primeira pergunta") {
		t.Error("transcript must not survive logout")
	}
}

func TestAsk_emptyQuestionIsIgnored(t *testing.T) {
	pipeline := &fakeAnswerer{answer: &models.Answer{Text: "resposta"}}
	ts, client := newTestServer(t, pipeline)
	login(t, ts, client, "admin", "secret").Body.Close()

	resp, err := client.PostForm(ts.URL+"/ask", url.Values{"question": {""}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(pipeline.asked) != 0 {
		t.Errorf("pipeline must not run for an empty question: %v", pipeline.asked)
	}
}

func TestHealth(t *testing.T) {
	ts, client := newTestServer(t, &fakeAnswerer{})
	resp, err := client.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body: %s", body)
	}
}

func TestSessionsAreIsolatedBetweenClients(t *testing.T) {
	pipeline := &fakeAnswerer{answer: &models.Answer{Text: "resposta"}}
	ts, clientA := newTestServer(t, pipeline)
	jar, _ := cookiejar.New(nil)
	clientB := &http.Client{Jar: jar}

	login(t, ts, clientA, "admin", "secret").Body.Close()
	resp, _ := clientA.PostForm(ts.URL+"/ask", url.Values{"question": {"pergunta do cliente a"}})
	resp.Body.Close()

	login(t, ts, clientB, "admin", "secret")
	respB, err := clientB.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, respB)
	if strings.Contains(body, "pergunta do cliente a") {
		t.Error("transcript leaked across sessions")
	}
}
