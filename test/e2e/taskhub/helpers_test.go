package taskhub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taskhubhq/taskhub/pkg/jwtx"
)

/*
 * Common constants and helper functions for taskhub end-to-end tests.
 * This includes container setup, an HTTP client wrapper, and token minting.
 */

const (
	testImageName = "taskhub-test:latest"

	jwtSecret = "e2e-test-secret-do-not-reuse"
	jwtIssuer = "taskhub"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building TaskHub Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up TaskHub Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/taskhub/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupTaskhubContainer starts the service in a container and returns the
// base URL. Rate limits are relaxed so rapid test requests don't trip them.
func setupTaskhubContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"TASKHUB_JWT_SECRET":    jwtSecret,
			"TASKHUB_ISSUER":        jwtIssuer,
			"TASKHUB_DATABASE_FILE": "/tmp/taskhub.db",
			"ENV":                   "test",
			"LOG_LEVEL":             "info",
			"LOG_FORMAT":            "json",
			// Relaxed limits; rate limiting itself is covered by the
			// httpx package tests.
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// mintToken signs an access token the way the external auth service would.
// The service provisions a local user row from these claims on first use.
func mintToken(t *testing.T, userID, email, name string) string {
	t.Helper()

	signer := jwtx.NewHS256([]byte(jwtSecret), jwtIssuer)
	token, err := signer.Sign(jwtx.NewAccessClaims(
		userID, email, name, jwtIssuer, time.Hour, time.Now(),
	))
	require.NoError(t, err)
	return token
}

// apiClient is a thin JSON client bound to one user's bearer token.
type apiClient struct {
	baseURL string
	token   string
}

func newClient(t *testing.T, baseURL, userID, email, name string) *apiClient {
	t.Helper()
	return &apiClient{
		baseURL: baseURL,
		token:   mintToken(t, userID, email, name),
	}
}

// do sends a request and decodes the JSON response body into a generic map.
// Array responses are wrapped under the "items" key.
func (c *apiClient) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var decoded any
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)

	switch v := decoded.(type) {
	case map[string]any:
		return resp.StatusCode, v
	case []any:
		return resp.StatusCode, map[string]any{"items": v}
	default:
		t.Fatalf("unexpected response shape: %s", raw)
		return 0, nil
	}
}

func (c *apiClient) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	return c.do(t, http.MethodGet, path, nil)
}

func (c *apiClient) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	return c.do(t, http.MethodPost, path, body)
}

func (c *apiClient) put(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	return c.do(t, http.MethodPut, path, body)
}

func (c *apiClient) patch(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	return c.do(t, http.MethodPatch, path, body)
}

// createWorkspace provisions a workspace owned by the client's user and
// returns its ID.
func createWorkspace(t *testing.T, c *apiClient, name string) string {
	t.Helper()

	status, body := c.post(t, "/v1/workspaces", map[string]any{
		"name":        name,
		"description": "e2e workspace",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}
