package report

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gdp(v float64) *float64 {
	return &v
}

func sampleCountries() []entity.Country {
	return []entity.Country{
		{Name: "Nigeria", EstimatedGDP: gdp(300)},
		{Name: "Antarctica"},
		{Name: "Ghana", EstimatedGDP: gdp(100)},
		{Name: "Germany", EstimatedGDP: gdp(900)},
		{Name: "Kenya", EstimatedGDP: gdp(200)},
		{Name: "Togo", EstimatedGDP: gdp(50)},
		{Name: "Chad", EstimatedGDP: gdp(400)},
	}
}

func TestTopByGDP(t *testing.T) {
	countries := sampleCountries()

	top := TopByGDP(countries, 5)

	names := make([]string, 0, len(top))
	for _, c := range top {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Germany", "Chad", "Nigeria", "Kenya", "Ghana"}, names)
	assert.Equal(t, "Nigeria", countries[0].Name)
	assert.Empty(t, TopByGDP([]entity.Country{{Name: "Antarctica"}}, 5))
}

func TestFormatAmount(t *testing.T) {
	r := NewRenderer()

	assert.Equal(t, "1,234,567.89", r.FormatAmount(1234567.891))
	assert.Equal(t, "12.50", r.FormatAmount(12.5))
}

func TestRenderProducesPNG(t *testing.T) {
	data, err := NewRenderer().Render(sampleCountries(), time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	white := color.RGBAModel.Convert(color.White)
	assert.Equal(t, white, color.RGBAModel.Convert(img.At(0, 0)))

	inked := false
	for x := 50; x < 400 && !inked; x++ {
		for y := 30; y < 70; y++ {
			if color.RGBAModel.Convert(img.At(x, y)) != white {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "title should be drawn")
}

func TestRenderEmptySnapshot(t *testing.T) {
	data, err := NewRenderer().Render(nil, time.Now())
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestFileSink(t *testing.T) {
	ctx := context.Background()
	sink := NewFileSink(filepath.Join(t.TempDir(), "cache"))

	_, err := sink.Load(ctx)
	require.ErrorIs(t, err, pkgerror.ErrNotFound)

	require.NoError(t, sink.Save(ctx, []byte("first")))
	require.NoError(t, sink.Save(ctx, []byte("second")))

	data, err := sink.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(filepath.Dir(sink.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type fakeRedis struct {
	values map[string][]byte
	err    error
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func TestRedisSink(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string][]byte{}}
	sink := NewRedisSink(client, "", 0)

	_, err := sink.Load(ctx)
	require.ErrorIs(t, err, pkgerror.ErrNotFound)

	require.NoError(t, sink.Save(ctx, []byte("png")))
	assert.Equal(t, []byte("png"), client.values[RedisKey])

	data, err := sink.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	client.err = errors.New("connection refused")
	assert.ErrorContains(t, sink.Save(ctx, []byte("png")), "connection refused")
	_, err = sink.Load(ctx)
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, pkgerror.ErrNotFound)
}

func TestReporterHandleAndLoad(t *testing.T) {
	ctx := context.Background()
	sink := NewFileSink(t.TempDir())
	reporter := NewReporter(nil, sink)

	_, err := reporter.Load(ctx)
	require.ErrorIs(t, err, pkgerror.ErrNotFound)

	require.NoError(t, reporter.Handle(ctx, entity.SnapshotEvent{
		EventID:     "evt-1",
		Countries:   sampleCountries(),
		GeneratedAt: time.Now(),
	}))

	data, err := reporter.Load(ctx)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}
