package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csheth/mailtriage/internal/tuitest"
)

type fakeService struct {
	mu     sync.Mutex
	emails []string
	server *httptest.Server
}

func newFakeService(t *testing.T, category, reply string) *fakeService {
	t.Helper()
	svc := &fakeService{}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		svc.mu.Lock()
		svc.emails = append(svc.emails, payload.Email)
		svc.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "success",
			"category":       category,
			"response":       reply,
			"content_length": len(payload.Email),
		})
	})
	svc.server = httptest.NewServer(mux)
	t.Cleanup(svc.server.Close)
	return svc
}

func (s *fakeService) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.emails...)
}

func TestClassifyPastedText(t *testing.T) {
	t.Parallel()

	svc := newFakeService(t, "Produtivo", "Thanks, we are on it.")
	rec := runMailtriage(t, []string{"--endpoint", svc.server.URL + "/classify"},
		tuitest.Step{WaitFor: "Service online"},
		tuitest.Type("Please send the Q3 report status"),
		tuitest.Press(tuitest.KeyCtrlS, "Q3 report status"),
		tuitest.Press(tuitest.KeyCtrlC, "Thanks, we are on it."),
	)

	if got := svc.received(); len(got) != 1 || got[0] != "Please send the Q3 report status" {
		t.Fatalf("service received %q", got)
	}
	if _, ok := rec.FrameContaining("Produtivo"); !ok && !strings.Contains(rec.PlainOutput(), "Produtivo") {
		t.Fatal("category never rendered")
	}
}

func TestClassifyFileByName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "holiday.txt")
	if err := os.WriteFile(file, []byte("Happy holidays!"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	svc := newFakeService(t, "Improdutivo", "Happy holidays to you too!")
	runMailtriage(t, []string{
		"--endpoint", svc.server.URL + "/classify",
		"--file", file,
		"--file-policy", "placeholder",
		"--skip-probe",
	},
		tuitest.Press(tuitest.KeyCtrlS, "Selected file: holiday.txt"),
		tuitest.Press(tuitest.KeyCtrlC, "Improdutivo"),
	)

	if got := svc.received(); len(got) != 1 || got[0] != "Arquivo: holiday.txt" {
		t.Fatalf("service received %q", got)
	}
}

func TestUnreachableServiceShowsAlert(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	endpoint := "http://" + listener.Addr().String() + "/classify"
	_ = listener.Close()

	rec := runMailtriage(t, []string{"--endpoint", endpoint},
		tuitest.Step{WaitFor: "Service offline"},
		tuitest.Type("hello"),
		tuitest.Press(tuitest.KeyCtrlS, "hello"),
		tuitest.Press(tuitest.KeyEsc, "Service unreachable"),
		tuitest.Press(tuitest.KeyCtrlC, "Classify Email"),
	)

	if !strings.Contains(rec.PlainOutput(), "Check that the classification service is running") {
		t.Fatal("unreachable guidance missing")
	}
}

func runMailtriage(t *testing.T, args []string, steps ...tuitest.Step) *tuitest.Recording {
	t.Helper()
	binary := buildBinary(t, moduleDir(t))
	work := t.TempDir()
	args = append([]string{"--no-alt-screen", "--log-file", filepath.Join(work, "mailtriage.log")}, args...)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command:        append([]string{binary}, args...),
		Dir:            work,
		Env:            []string{"HOME=" + work, "XDG_CACHE_HOME=" + work},
		Width:          100,
		Height:         40,
		Steps:          steps,
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		logs, _ := os.ReadFile(filepath.Join(work, "mailtriage.log"))
		t.Fatalf("run CLI: %v\nlog:\n%s", err, logs)
	}
	return rec
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
	buildOut  []byte
)

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	buildOnce.Do(func() {
		tmp, err := os.MkdirTemp("", "mailtriage-integration")
		if err != nil {
			buildErr = err
			return
		}
		name := "mailtriage"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		binPath = filepath.Join(tmp, name)
		cmd := exec.Command("go", "build", "-o", binPath, ".")
		cmd.Dir = cmdDir
		buildOut, buildErr = cmd.CombinedOutput()
	})
	if buildErr != nil {
		t.Fatalf("build CLI: %v\n%s", buildErr, buildOut)
	}
	return binPath
}
