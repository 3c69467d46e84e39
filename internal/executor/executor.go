package executor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/logger"
	"github.com/dgiagio/warp/internal/triple"
)

// entryPermissions is set on the entry-point file before every POSIX
// invocation, defensively repairing an archive that lost its execute bit
// in transit (e.g. a zip re-pack upstream of warp-packer).
const entryPermissions = 0o770

// Execute runs the entry point named entryName out of cacheDir, with
// cacheDir prepended to the inherited PATH, forwarding args and the
// process's own stdio. It returns the entry point's exit code.
//
// On Windows a .bat or .cmd entry point (extension compared
// case-insensitively) is dispatched through `cmd /c`. Every other entry
// point is invoked by its full path inside cacheDir: PATH is set on the
// child via Cmd.Env, but CommandContext resolves a separator-free name
// against this process's own ambient PATH at construction time, which
// never contains cacheDir. On POSIX the entry point's permissions are
// first defensively repaired to entryPermissions.
func Execute(
	ctx context.Context,
	ce CommandExecutor,
	fs filesystem.FileSystem,
	t triple.Triple,
	cacheDir, entryName string,
	args []string,
) (int, error) {
	entryPath := filepath.Join(cacheDir, entryName)

	if !t.IsWindows() {
		if err := fs.Chmod(entryPath, entryPermissions); err != nil {
			return 0, err
		}
	}

	pathEnv := buildPath(cacheDir, t)

	var cmd Command

	ext := strings.ToLower(filepath.Ext(entryName))
	if t.IsWindows() && (ext == ".bat" || ext == ".cmd") {
		cmdArgs := append([]string{"/c", entryName}, args...)
		cmd = ce.CommandContext(ctx, "cmd", cmdArgs...)
	} else {
		cmd = ce.CommandContext(ctx, entryPath, args...)
	}

	cmd.SetEnv(replacePathEnv(os.Environ(), pathEnv))
	cmd.SetDir(cacheDir)
	cmd.SetStdin(os.Stdin)
	cmd.SetStdout(os.Stdout)
	cmd.SetStderr(os.Stderr)

	logger.Debugf("executing entry point %q with PATH=%q", entryName, pathEnv)

	err := cmd.Run()
	if err == nil {
		return cmd.ExitCode(), nil
	}

	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// The process was terminated by a signal rather than exiting
			// normally; the original runner falls back to exit code 1 in
			// this case, since there is no portable exit code to report.
			logger.Debugf("entry point %q exited without an exit code: %v", entryName, exitErr)

			return defaultExitCode, nil
		}

		return code, nil
	}

	return 0, &SpawnError{Name: entryName, Err: err}
}

func asExitError(err error, target **exec.ExitError) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}

	*target = exitErr

	return true
}

// buildPath returns the PATH environment value with cacheDir prepended,
// using the target triple's path-list separator.
func buildPath(cacheDir string, t triple.Triple) string {
	current := os.Getenv("PATH")
	if current == "" {
		return cacheDir
	}

	return cacheDir + string(t.PathSeparator()) + current
}

// replacePathEnv returns env with its PATH entry replaced by newPath,
// appending one if none was present.
func replacePathEnv(env []string, newPath string) []string {
	out := make([]string, 0, len(env)+1)
	replaced := false

	for _, kv := range env {
		if len(kv) >= 5 && kv[:5] == "PATH=" {
			out = append(out, "PATH="+newPath)

			replaced = true

			continue
		}

		out = append(out, kv)
	}

	if !replaced {
		out = append(out, "PATH="+newPath)
	}

	return out
}
