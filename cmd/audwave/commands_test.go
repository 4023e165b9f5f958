// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/audiotest"
)

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateCmd(t *testing.T) {
	in := writeFile(t, "tone.wav", audiotest.SineWAV(16000, 1, 440, 0.5))
	out := filepath.Join(t.TempDir(), "tone.out.wav")

	stdout, err := run(t, nil, "generate", in, "--codec", "wav", "--buckets", "32", "--out", out)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	var res generateOutput
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}

	raw, err := base64.StdEncoding.DecodeString(res.Waveform)
	if err != nil || len(raw) != 32 {
		t.Errorf("waveform = %q (%v)", res.Waveform, err)
	}
	if res.ContentType != "audio/wav" || res.Duration != 1 {
		t.Errorf("result = %+v", res)
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(written) != res.AudioBytes {
		t.Errorf("wrote %d bytes, reported %d", len(written), res.AudioBytes)
	}
}

func TestGenerateCmd_Stdin(t *testing.T) {
	stdout, err := run(t, audiotest.SineWAV(8000, 0.5, 440, 0.5), "generate", "-", "--codec", "wav", "--mode", "rms")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	var res generateOutput
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if res.Output != "" || res.AudioBytes != 44+4000*2 {
		t.Errorf("result = %+v", res)
	}
}

func TestGenerateCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"invalid config", []string{"generate", "-", "--buckets", "0"}, audwave.ErrInvalidConfig},
		{"unknown codec", []string{"generate", "-", "--codec", "aac"}, audwave.ErrUnknownCodec},
		{"not audio", []string{"generate", "-"}, audio.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, []byte("plain text"), tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateCmd_BadMode(t *testing.T) {
	if _, err := run(t, nil, "generate", "-", "--mode", "loudest"); err == nil {
		t.Error("error = nil for unknown mode")
	}
}

func TestProbeCmd(t *testing.T) {
	in := writeFile(t, "clip.aiff", audiotest.AIFF(22050, 2, 16, audiotest.Samples(2, 22050, audiotest.Constant(0.1))))

	stdout, err := run(t, nil, "probe", in)
	if err != nil {
		t.Fatalf("probe error = %v", err)
	}

	var info audwave.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	want := audwave.Info{Format: "aiff", SampleRate: 22050, Channels: 2, Frames: 22050, Duration: 1}
	if info != want {
		t.Errorf("probe = %+v, want %+v", info, want)
	}
}

func TestConvertCmd(t *testing.T) {
	in := writeFile(t, "in.wav", audiotest.WAV(16000, 2, 16, audiotest.Samples(2, 16000, audiotest.Sine(16000, 300, 0.5))))
	out := filepath.Join(t.TempDir(), "out.wav")

	if _, err := run(t, nil, "convert", in, out, "--codec", "wav", "--rate", "8000"); err != nil {
		t.Fatalf("convert error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	info, err := audwave.NewSampleSource(audio.NewRegistry(audwave.DefaultDecoders()...), audwave.DefaultConfig(), nil).
		Probe(t.Context(), data)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.SampleRate != 8000 || info.Channels != 1 {
		t.Errorf("converted = %+v, want 8000 Hz mono", info)
	}
	if info.Duration < 0.99 || info.Duration > 1.01 {
		t.Errorf("Duration = %v, want about 1s", info.Duration)
	}
}

func TestConvertCmd_MissingInput(t *testing.T) {
	_, err := run(t, nil, "convert", filepath.Join(t.TempDir(), "missing.wav"), "out.wav")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
