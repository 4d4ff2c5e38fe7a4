package audio

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"github.com/ahammed3216/emotion-voice-conversion/logging"
)

// FileMetadata holds audio properties detected by ffprobe
type FileMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
}

// ffmpegDecoder decodes arbitrary audio formats by piping raw f64le PCM
// out of an ffmpeg subprocess, resampling with soxr along the way.
type ffmpegDecoder struct {
	ffmpegPath  string
	ffprobePath string
}

func newFFmpegDecoder(ffmpegPath, ffprobePath string) *ffmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ffmpegDecoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// decodeFile decodes a file to a mono float64 waveform at targetRate.
// targetRate 0 keeps the file's native rate.
func (d *ffmpegDecoder) decodeFile(ctx context.Context, filename string, targetRate int) (Waveform, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_loader",
		"decoder":   "ffmpeg",
		"filename":  filename,
	})

	metadata, err := d.probeFile(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return Waveform{}, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	outputRate := targetRate
	if outputRate <= 0 {
		outputRate = metadata.SampleRate
	}

	args := []string{
		"-v", "error",
		"-i", filename,
		"-vn",
		"-f", "f64le", // raw float64 little-endian
		"-ac", "1",
		"-ar", strconv.Itoa(outputRate),
	}
	if outputRate != metadata.SampleRate {
		args = append(args, "-af", fmt.Sprintf("aresample=%d:resampler=soxr", outputRate))
	}
	args = append(args, "pipe:1")

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "Ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
			return Waveform{}, fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return Waveform{}, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return Waveform{}, fmt.Errorf("no audio samples decoded from %s", filename)
	}

	logger.Debug("Ffmpeg decode completed", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": outputRate,
	})

	return Waveform{Samples: samples, SampleRate: outputRate}, nil
}

// probeFile uses ffprobe to read stream properties
func (d *ffmpegDecoder) probeFile(ctx context.Context, filename string) (*FileMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		filename,
	}

	cmd := exec.CommandContext(ctx, d.ffprobePath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseFFprobeOutput(output)
}

func parseFFprobeOutput(jsonData []byte) (*FileMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate in ffprobe output: %q", stream.SampleRate)
	}

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &FileMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat64 converts raw f64le bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}
