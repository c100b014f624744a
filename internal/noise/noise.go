package noise

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"randgen/internal/random"
)

const (
	Width  = 128
	Height = 128

	Duration   = 3 // seconds
	SampleRate = 22050
	BitDepth   = 8
	SampleMax  = 1<<BitDepth - 1
)

// Bitmap writes a Width x Height PNG whose RGB channels are drawn from src.
// Channel values lie in [1, 255] and are consumed row by row as R, G, B.
func Bitmap(ctx context.Context, src random.Source, w io.Writer) error {
	data, err := src.Ints(ctx, 1, 255, Width*Height*3)
	if err != nil {
		return fmt.Errorf("bitmap pixels: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	for i := 0; i < Width*Height; i++ {
		img.SetNRGBA(i%Width, i/Width, color.NRGBA{
			R: uint8(data[3*i]),
			G: uint8(data[3*i+1]),
			B: uint8(data[3*i+2]),
			A: 0xff,
		})
	}
	return png.Encode(w, img)
}

// WhiteNoise writes Duration seconds of mono 8 bit PCM noise as a WAV file.
func WhiteNoise(ctx context.Context, src random.Source, w io.WriteSeeker) error {
	samples, err := src.Ints(ctx, 0, SampleMax, SampleRate*Duration)
	if err != nil {
		return fmt.Errorf("noise samples: %w", err)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           samples,
		SourceBitDepth: BitDepth,
	}

	enc := wav.NewEncoder(w, SampleRate, BitDepth, 1, 1) // 1 = PCM
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return enc.Close()
}
