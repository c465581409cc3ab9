package process

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/3-lines-studio/vitebridge/internal/core"
)

//go:embed render_server.mjs
var RenderServerSource string

const socketTimeout = 10 * time.Second

var errNodeExited = errors.New("node exited before the render server started")

type RendererOptions struct {
	// Node is the node binary, "node" when empty.
	Node string
	// Entry is the absolute path of the SSR bundle exporting render(url).
	Entry string
	// Cleanup runs after the process has been stopped.
	Cleanup func()
}

// Renderer keeps a Node process running the SSR bundle and talks to it over
// a unix socket.
type Renderer struct {
	cmd     *exec.Cmd
	exited  <-chan struct{}
	socket  string
	client  *http.Client
	cleanup func()
}

func NewRenderer(opts RendererOptions) (*Renderer, error) {
	if opts.Entry == "" {
		return nil, fmt.Errorf("missing SSR entry")
	}
	if _, err := os.Stat(opts.Entry); err != nil {
		return nil, fmt.Errorf("SSR entry not found: %w", err)
	}

	node := opts.Node
	if node == "" {
		node = "node"
	}

	socket := filepath.Join(os.TempDir(), fmt.Sprintf("vitebridge-%d-%d.sock", os.Getpid(), time.Now().UnixNano()))

	cmd := exec.Command(node, "--input-type=module", "-")
	cmd.Dir = filepath.Dir(opts.Entry)
	cmd.Env = append(os.Environ(),
		"VITEBRIDGE_SOCKET="+socket,
		"VITEBRIDGE_SERVER_ENTRY="+opts.Entry,
		"NODE_ENV=production",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = strings.NewReader(RenderServerSource)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	// cmd.Wait is only ever called here; Stop and the failure path wait on
	// exited instead.
	exited := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(exited)
	}()

	if err := waitForSocket(socket, socketTimeout, exited); err != nil {
		_ = cmd.Process.Kill()
		<-exited
		_ = os.Remove(socket)
		if waitErr != nil {
			return nil, fmt.Errorf("%w: %w", err, waitErr)
		}
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}

	return &Renderer{
		cmd:     cmd,
		exited:  exited,
		socket:  socket,
		client:  &http.Client{Transport: transport},
		cleanup: opts.Cleanup,
	}, nil
}

func (r *Renderer) Stop() error {
	var err error
	select {
	case <-r.exited:
	default:
		err = r.cmd.Process.Kill()
		<-r.exited
	}
	_ = os.Remove(r.socket)
	if r.cleanup != nil {
		r.cleanup()
	}
	return err
}

func (r *Renderer) Render(ctx context.Context, url string) (core.RenderedPage, error) {
	var result struct {
		HTML  string `json:"html"`
		Head  string `json:"head"`
		Error *struct {
			Message string `json:"message"`
			Stack   string `json:"stack"`
		} `json:"error"`
	}

	if err := r.postJSON(ctx, "/render", map[string]any{"url": url}, &result); err != nil {
		return core.RenderedPage{}, err
	}

	if result.Error != nil {
		var sb strings.Builder
		sb.WriteString(result.Error.Message)
		if result.Error.Stack != "" {
			fmt.Fprintf(&sb, "\n\nStack:\n%s", result.Error.Stack)
		}
		return core.RenderedPage{}, fmt.Errorf("%s", sb.String())
	}

	return core.RenderedPage{
		Body: result.HTML,
		Head: result.Head,
	}, nil
}

func (r *Renderer) postJSON(ctx context.Context, endpoint string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://localhost"+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render server returned %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// waitForSocket polls for the socket file until timeout, or until the process
// signals exited without having created it.
func waitForSocket(path string, timeout time.Duration, exited <-chan struct{}) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-exited:
			return errNodeExited
		case <-deadline.C:
			return fmt.Errorf("timeout waiting for node socket at %s", path)
		case <-tick.C:
		}
	}
}
