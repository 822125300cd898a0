//go:build headless

package main

import "errors"

func play([]float32, int) error {
	return errors.New("playback is not available in headless builds")
}
