package backend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"transcriber/internal/services"
)

// fakeRunner answers python -c probes and pip installs from a table keyed by a
// substring of the joined argv.
type fakeRunner struct {
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	out string
	err error
}

func (f *fakeRunner) Run(_ context.Context, argv ...string) (string, error) {
	joined := strings.Join(argv, " ")
	f.calls = append(f.calls, joined)
	// Longest match wins so "import torch_directml; print" beats "import torch".
	best := ""
	for key := range f.responses {
		if strings.Contains(joined, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return "", errors.New("unexpected command: " + joined)
	}
	resp := f.responses[best]
	return resp.out, resp.err
}

func (f *fakeRunner) called(fragment string) bool {
	for _, c := range f.calls {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

var errExit = errors.New("exit status 1")

func baseResponses() map[string]fakeResponse {
	return map[string]fakeResponse{
		"import torch":               {},
		"import whisper":             {},
		"torch.cuda.is_available":    {out: "False\n"},
		"sys.version_info":           {out: "3.11\n"},
		"import torch_directml":      {err: errExit},
		"pip install torch-directml": {err: errExit},
	}
}

func newTestSelector(runner Runner, nvidia bool) *Selector {
	return NewSelector(runner, Options{
		Python:       "/usr/bin/python3",
		AutoInstall:  true,
		CUDAIndexURL: "https://download.pytorch.org/whl/cu121",
		HasNVIDIA:    func() bool { return nvidia },
	}, nil)
}

func TestSelectPrefersCUDA(t *testing.T) {
	responses := baseResponses()
	responses["torch.cuda.is_available"] = fakeResponse{out: "True\n"}
	runner := &fakeRunner{responses: responses}

	device, err := newTestSelector(runner, true).Select(context.Background())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if device != CUDA {
		t.Fatalf("expected CUDA, got %+v", device)
	}
	if runner.called("torch_directml") {
		t.Fatal("DirectML must not be probed when CUDA is available")
	}
}

func TestSelectSkipsDirectMLOnPython312(t *testing.T) {
	responses := baseResponses()
	responses["sys.version_info"] = fakeResponse{out: "3.12\n"}
	runner := &fakeRunner{responses: responses}

	device, err := newTestSelector(runner, false).Select(context.Background())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if device != CPU {
		t.Fatalf("expected CPU, got %+v", device)
	}
	if runner.called("torch-directml") || runner.called("import torch_directml") {
		t.Fatalf("expected no DirectML install attempt, calls: %v", runner.calls)
	}
}

func TestSelectDirectMLFailureFallsBackToCPU(t *testing.T) {
	runner := &fakeRunner{responses: baseResponses()}

	device, err := newTestSelector(runner, false).Select(context.Background())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if device != CPU {
		t.Fatalf("expected CPU, got %+v", device)
	}
	if !runner.called("pip install torch-directml") {
		t.Fatal("expected a DirectML install attempt on Python 3.11")
	}
}

func TestSelectUsesDirectMLDevice(t *testing.T) {
	responses := baseResponses()
	responses["import torch_directml"] = fakeResponse{}
	responses["print(torch_directml.device())"] = fakeResponse{out: "privateuseone:0\n"}
	runner := &fakeRunner{responses: responses}

	device, err := newTestSelector(runner, false).Select(context.Background())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if device != DirectML {
		t.Fatalf("expected DirectML, got %+v", device)
	}
}

func TestEnsureTorchCUDAInstallFallsBackToCPU(t *testing.T) {
	responses := baseResponses()
	responses["-c import torch"] = fakeResponse{err: errExit}
	responses["--index-url https://download.pytorch.org/whl/cu121"] = fakeResponse{err: errExit}
	responses["pip install torch torchvision torchaudio"] = fakeResponse{}
	runner := &fakeRunner{responses: responses}

	if err := newTestSelector(runner, true).ensureTorch(context.Background()); err != nil {
		t.Fatalf("ensureTorch returned error: %v", err)
	}
	var installs []string
	for _, c := range runner.calls {
		if strings.Contains(c, "pip install torch ") {
			installs = append(installs, c)
		}
	}
	if len(installs) != 2 {
		t.Fatalf("expected CUDA then CPU install, got %v", installs)
	}
	if !strings.Contains(installs[0], "cu121") || strings.Contains(installs[1], "cu121") {
		t.Fatalf("unexpected install order: %v", installs)
	}
}

func TestEnsureTorchCPUInstallFailureIsFatal(t *testing.T) {
	responses := baseResponses()
	responses["-c import torch"] = fakeResponse{err: errExit}
	responses["pip install torch torchvision torchaudio"] = fakeResponse{err: errExit}
	runner := &fakeRunner{responses: responses}

	_, err := newTestSelector(runner, false).Select(context.Background())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if runner.called("cu121") {
		t.Fatal("CUDA index must not be used without an NVIDIA driver")
	}
}

func TestEnsureWhisperRespectsAutoInstall(t *testing.T) {
	responses := baseResponses()
	responses["-c import whisper"] = fakeResponse{err: errExit}
	runner := &fakeRunner{responses: responses}
	selector := NewSelector(runner, Options{Python: "python3"}, nil)

	_, err := selector.Select(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if runner.called("pip install openai-whisper") {
		t.Fatal("expected no install when auto-install is disabled")
	}
}
