package e2e_test

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	binaries       = map[string]string{}
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	// Create shared temp directory for the binaries
	var err error
	sharedTempDir, err = os.MkdirTemp("", "acsign-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if testCleanup != nil {
		testCleanup()
	}
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// AuthKey represents an access key pair accepted by the gateway.
type AuthKey struct {
	AccessKeyID     string
	AccessKeySecret string
}

// ServerConfig holds configuration for starting acs-mock.
type ServerConfig struct {
	Port         int
	DBType       string // memory, sqlite, postgres
	DBDSN        string
	AuthRequired bool
	AuthKeys     []AuthKey
}

// buildBinaries compiles acs-mock and acs-cli once per test run.
func buildBinaries(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	binaryOnce.Do(func() {
		for _, name := range []string{"acs-mock", "acs-cli"} {
			path := filepath.Join(sharedTempDir, name)

			cmd := exec.Command("go", "build", "-o", path, "./cmd/"+name)
			cmd.Dir = getProjectRoot(t)
			output, err := cmd.CombinedOutput()
			if err != nil {
				binaryBuildErr = fmt.Errorf("build %s: %w\nOutput: %s", name, err, output)
				return
			}
			binaries[name] = path
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binaries: %v", binaryBuildErr)
	}
}

// binary returns the path of a compiled command.
func binary(t *testing.T, name string) string {
	t.Helper()
	buildBinaries(t)
	return binaries[name]
}

// getProjectRoot returns the directory holding go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes an acs-mock config file and returns its path.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, `server:
  port: %d

database:
  type: %s
  dsn: "%s"

nonce:
  enabled: true

auth:
  required: %t
`,
		cfg.Port,
		cfg.DBType,
		cfg.DBDSN,
		cfg.AuthRequired,
	)

	if len(cfg.AuthKeys) > 0 {
		sb.WriteString("  keys:\n    inline:\n")
		for _, key := range cfg.AuthKeys {
			fmt.Fprintf(&sb, "      - access_key_id: %s\n        access_key_secret: %s\n", key.AccessKeyID, key.AccessKeySecret)
		}
	}

	sb.WriteString("\nlog:\n  level: error\n")

	configPath := filepath.Join(t.TempDir(), "acs-mock.yaml")
	err := os.WriteFile(configPath, []byte(sb.String()), 0o600)
	require.NoError(t, err, "write config file")

	return configPath
}

// runMock runs a one-shot acs-mock command and returns its combined output.
func runMock(t *testing.T, configPath string, args ...string) string {
	t.Helper()

	cmd := exec.Command(binary(t, "acs-mock"), append(args, "--config", configPath)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "acs-mock %v: %s", args, output)
	return string(output)
}

// startServer starts acs-mock with the given configuration.
// Returns the host:port and a cleanup function that stops the server.
func startServer(t *testing.T, cfg ServerConfig) (string, func()) {
	t.Helper()

	configPath := createConfigFile(t, cfg)

	cmd := exec.Command(binary(t, "acs-mock"), "serve", "--config", configPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	host := fmt.Sprintf("localhost:%d", cfg.Port)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	if !waitForServer("http://"+host, 10*time.Second) {
		cleanup()
		t.Fatalf("server failed to start within 10s")
	}

	return host, cleanup
}

// waitForServer polls /healthz until it answers or the timeout passes.
func waitForServer(baseURL string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}

	return false
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}
