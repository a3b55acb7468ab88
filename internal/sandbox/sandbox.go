// Package sandbox launches a single containerized process with enforced
// resource limits and returns a normalized result.
//
// It talks to the Docker Engine API directly through the client SDK rather
// than shelling out to the docker binary — see DESIGN.md for why this is
// the authoritative iteration over the CLI-subprocess form.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/syla/execution-service/internal/model"
)

// ContainerConfig describes a single container launch, as produced by the
// worker loop from the language profile plus the job's resource settings.
type ContainerConfig struct {
	Image            string
	Argv             []string
	Env              map[string]string
	WorkingDir       string
	MemoryLimitBytes int64
	CPULimitCores    float64
	TimeoutSeconds   int
	NetworkEnabled   bool
}

// Result is the normalized outcome of one container run. The adapter never
// returns a non-nil error for a container that started and finished — only
// for launch/runtime failures (AdapterError).
type Result struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	DurationMs int64
	TimedOut   bool
}

// AdapterError distinguishes "the runtime could not run this at all" from a
// normal (possibly non-zero-exit) Result.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string { return fmt.Sprintf("sandbox: %s: %v", e.Op, e.Err) }
func (e *AdapterError) Unwrap() error { return e.Err }

// Sandbox is the contract the worker loop depends on to run one job.
type Sandbox interface {
	Run(ctx context.Context, containerName string, cfg ContainerConfig, hostCodeDir string) (*Result, error)
	Close() error
}

// DockerSandbox implements Sandbox against a local Docker daemon.
type DockerSandbox struct {
	cli *client.Client
}

// NewDockerSandbox connects to the Docker daemon found via the standard
// DOCKER_HOST/DOCKER_* environment, negotiating the API version.
func NewDockerSandbox() (*DockerSandbox, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &AdapterError{Op: "connect", Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, &AdapterError{Op: "ping", Err: err}
	}

	return &DockerSandbox{cli: cli}, nil
}

// Close releases the underlying Docker client connection.
func (d *DockerSandbox) Close() error {
	if d.cli == nil {
		return nil
	}
	return d.cli.Close()
}

// Run launches one container, waits for it (bounded by cfg.TimeoutSeconds,
// defaulting to 30), and returns a normalized Result. It never returns an
// error for a container that ran and exited, zero or not.
func (d *DockerSandbox) Run(ctx context.Context, containerName string, cfg ContainerConfig, hostCodeDir string) (*Result, error) {
	start := time.Now()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = model.DefaultTimeoutSeconds
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	if err := d.ensureImage(runCtx, cfg.Image); err != nil {
		return nil, &AdapterError{Op: "pull image", Err: err}
	}

	containerCfg := &container.Config{
		Image:        cfg.Image,
		Cmd:          cfg.Argv,
		WorkingDir:   cfg.WorkingDir,
		Env:          envSlice(cfg.Env),
		AttachStdout: true,
		AttachStderr: true,
		Tty:          false,
	}

	hostCfg := &container.HostConfig{
		NetworkMode:    networkMode(cfg.NetworkEnabled),
		AutoRemove:     false,
		SecurityOpt:    []string{"no-new-privileges"},
		CapDrop:        []string{"ALL"},
		ReadonlyRootfs: false,
		Resources: container.Resources{
			Memory:    cfg.MemoryLimitBytes,
			NanoCPUs:  int64(cfg.CPULimitCores * 1e9),
			PidsLimit: int64Ptr(64),
		},
	}

	if hostCodeDir != "" {
		hostCfg.Mounts = []mount.Mount{{
			Type:     mount.TypeBind,
			Source:   hostCodeDir,
			Target:   cfg.WorkingDir,
			ReadOnly: true,
		}}
	}

	resp, err := d.cli.ContainerCreate(runCtx, containerCfg, hostCfg, nil, nil, containerName)
	if err != nil {
		return nil, &AdapterError{Op: "create container", Err: err}
	}
	containerID := resp.ID

	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		_ = d.cli.ContainerRemove(cleanupCtx, containerID, container.RemoveOptions{Force: true, RemoveVolumes: true})
	}()

	if err := d.cli.ContainerStart(runCtx, containerID, container.StartOptions{}); err != nil {
		return nil, &AdapterError{Op: "start container", Err: err}
	}

	statusCh, errCh := d.cli.ContainerWait(runCtx, containerID, container.WaitConditionNotRunning)

	select {
	case err := <-errCh:
		if runCtx.Err() != nil {
			return d.timeoutResult(containerName, start), nil
		}
		if err != nil {
			return nil, &AdapterError{Op: "wait container", Err: err}
		}
		return nil, &AdapterError{Op: "wait container", Err: fmt.Errorf("wait returned no status")}

	case status := <-statusCh:
		stdout, stderr, logErr := d.collectLogs(containerID)
		if logErr != nil {
			stderr = appendLogError(stderr, logErr)
		}
		return &Result{
			ExitCode:   exitCodeOrMinusOne(status.StatusCode),
			Stdout:     truncateStream(stdout),
			Stderr:     truncateStream(stderr),
			DurationMs: time.Since(start).Milliseconds(),
			TimedOut:   false,
		}, nil

	case <-runCtx.Done():
		return d.timeoutResult(containerName, start), nil
	}
}

// timeoutResult applies the timeout contract: best effort kill by name,
// then the fixed {-1, "", "Execution timed out", elapsed, true} result.
func (d *DockerSandbox) timeoutResult(containerName string, start time.Time) *Result {
	killCtx, killCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer killCancel()
	_ = d.cli.ContainerKill(killCtx, containerName, "SIGKILL")

	return &Result{
		ExitCode:   -1,
		Stdout:     "",
		Stderr:     "Execution timed out",
		DurationMs: time.Since(start).Milliseconds(),
		TimedOut:   true,
	}
}

func (d *DockerSandbox) ensureImage(ctx context.Context, imageName string) error {
	if _, _, err := d.cli.ImageInspectWithRaw(ctx, imageName); err == nil {
		return nil
	}

	reader, err := d.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", imageName, err)
	}
	defer reader.Close()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("read pull stream for %s: %w", imageName, err)
	}
	return nil
}

func (d *DockerSandbox) collectLogs(containerID string) (stdout, stderr string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := d.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", "", err
	}
	defer logs.Close()

	var outBuf, errBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&outBuf, &errBuf, logs); err != nil {
		return "", "", err
	}
	return outBuf.String(), errBuf.String(), nil
}

func truncateStream(s string) string {
	if len(s) <= model.MaxStreamBytes {
		return s
	}
	cut := model.MaxStreamBytes - len(model.TruncationMarker)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + model.TruncationMarker
}

func appendLogError(stderr string, err error) string {
	msg := fmt.Sprintf("failed to retrieve output: %v", err)
	if stderr == "" {
		return msg
	}
	if !strings.HasSuffix(stderr, "\n") {
		stderr += "\n"
	}
	return stderr + msg
}

func exitCodeOrMinusOne(code int64) int {
	if code < 0 {
		return -1
	}
	return int(code)
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func networkMode(enabled bool) container.NetworkMode {
	if enabled {
		return "bridge"
	}
	return "none"
}

func int64Ptr(v int64) *int64 { return &v }
