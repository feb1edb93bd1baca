// Package media turns uploaded video or audio files into canonical mono
// 16-bit PCM WAV files using ffmpeg.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extensions accepted for upload.
var uploadExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".wmv": true, ".m4a": true,
}

// Raw audio formats additionally accepted by the extractor.
var audioExtensions = map[string]bool{
	".m4a": true, ".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
}

// UploadExtensions returns the sorted upload allow-list.
func UploadExtensions() []string {
	return []string{".avi", ".m4a", ".mkv", ".mov", ".mp4", ".wmv"}
}

// IsSupported reports whether a file name carries an uploadable extension.
func IsSupported(name string) bool {
	return uploadExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsExtractable reports whether the extractor accepts the extension.
func IsExtractable(ext string) bool {
	ext = strings.ToLower(ext)
	return uploadExtensions[ext] || audioExtensions[ext]
}

// IsAudio reports whether ext is a raw audio format.
func IsAudio(ext string) bool {
	return audioExtensions[strings.ToLower(ext)]
}

// Asset is an input media file.
type Asset struct {
	Path string
	// Ext is the lower-cased extension including the dot.
	Ext  string
	Size int64
}

// NewAsset stats path and builds an Asset.
func NewAsset(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, err
	}
	if info.IsDir() {
		return Asset{}, fmt.Errorf("media: %s is a directory", path)
	}
	return Asset{
		Path: path,
		Ext:  strings.ToLower(filepath.Ext(path)),
		Size: info.Size(),
	}, nil
}

// Config configures the extractor.
type Config struct {
	FFmpegBinary  string `yaml:"ffmpeg_binary" mapstructure:"ffmpeg_binary"`
	FFprobeBinary string `yaml:"ffprobe_binary" mapstructure:"ffprobe_binary"`
	// TempDir holds extracted audio and chunks. Empty means os.TempDir().
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// SampleRate resamples the output when set; zero keeps the source rate.
	SampleRate int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxUploadBytes bounds accepted uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.FFmpegBinary == "" {
		c.FFmpegBinary = "ffmpeg"
	}
	if c.FFprobeBinary == "" {
		c.FFprobeBinary = "ffprobe"
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Minute
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 2 << 30
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("media.sample_rate must not be negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("media.max_upload_bytes must not be negative")
	}
	return nil
}
