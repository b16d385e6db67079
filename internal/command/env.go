package command

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ToolEnv derives a child environment from base that puts the ffmpeg directory
// first on PATH and exports FFMPEG_BINARY. Extra entries are appended last and
// override earlier keys of the same name.
func ToolEnv(base []string, ffmpegPath string, extra ...string) []string {
	if base == nil {
		base = os.Environ()
	}
	env := append([]string{}, base...)
	if ffmpegPath != "" {
		env = setEnv(env, "FFMPEG_BINARY", ffmpegPath)
		if dir := filepath.Dir(ffmpegPath); dir != "" && dir != "." {
			env = setEnv(env, pathKey(env), prependPath(lookupEnv(env, pathKey(env)), dir))
		}
	}
	for _, kv := range extra {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env = setEnv(env, key, value)
	}
	return env
}

// LookupEnv returns the value of key in env.
func LookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(env[i], "=")
		if ok && envKeyEqual(k, key) {
			return v, true
		}
	}
	return "", false
}

func lookupEnv(env []string, key string) string {
	v, _ := LookupEnv(env, key)
	return v
}

func setEnv(env []string, key, value string) []string {
	out := env[:0]
	for _, kv := range env {
		k, _, ok := strings.Cut(kv, "=")
		if ok && envKeyEqual(k, key) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+"="+value)
}

func prependPath(current, dir string) string {
	if current == "" {
		return dir
	}
	for _, entry := range filepath.SplitList(current) {
		if entry == dir {
			return current
		}
	}
	return dir + string(os.PathListSeparator) + current
}

// pathKey keeps the existing spelling on Windows, where the variable is often "Path".
func pathKey(env []string) string {
	if runtime.GOOS != "windows" {
		return "PATH"
	}
	for _, kv := range env {
		k, _, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(k, "PATH") {
			return k
		}
	}
	return "PATH"
}

func envKeyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
