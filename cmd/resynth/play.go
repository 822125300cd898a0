//go:build !headless

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// play streams mono float32 samples to the default output device and waits
// until playback finishes.
func play(samples []float32, sampleRate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	<-ready

	buf := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	player := ctx.NewPlayer(bytes.NewReader(buf))
	defer player.Close()
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
