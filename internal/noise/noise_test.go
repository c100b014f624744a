package noise

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"randgen/internal/random"
)

type countingSource struct {
	src      random.Source
	requests []int
}

func (c *countingSource) Ints(ctx context.Context, lo, hi, count int) ([]int, error) {
	c.requests = append(c.requests, count)
	return c.src.Ints(ctx, lo, hi, count)
}

func TestBitmap(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Bitmap(context.Background(), random.NewLocal(3), &out))

	img, err := png.Decode(&out)
	require.NoError(t, err)
	require.Equal(t, Width, img.Bounds().Dx())
	require.Equal(t, Height, img.Bounds().Dy())

	expected, err := random.NewLocal(3).Ints(context.Background(), 1, 255, Width*Height*3)
	require.NoError(t, err)

	last := Width*Height - 1
	for _, i := range []int{0, 1, Width, last} {
		c := color.NRGBAModel.Convert(img.At(i%Width, i/Width)).(color.NRGBA)
		require.Equal(t, uint8(expected[3*i]), c.R)
		require.Equal(t, uint8(expected[3*i+1]), c.G)
		require.Equal(t, uint8(expected[3*i+2]), c.B)
		require.NotZero(t, c.R)
	}
}

func TestWhiteNoise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	counter := &countingSource{src: random.NewLocal(5)}
	err = WhiteNoise(context.Background(), random.NewBatched(counter, random.MaxPerRequest), f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// 66150 samples need seven requests of at most 10000
	require.Len(t, counter.requests, 7)
	require.Equal(t, 6150, counter.requests[6])

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Equal(t, uint32(SampleRate), dec.SampleRate)
	require.Equal(t, uint16(BitDepth), dec.BitDepth)
	require.Equal(t, uint16(1), dec.NumChans)
	require.Len(t, buf.Data, SampleRate*Duration)
}
