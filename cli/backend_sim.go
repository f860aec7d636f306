package main

import (
	"os"

	"github.com/johnneerdael/lpc-tools/eeprom"
)

// simBackend runs the driver against the in-process controller model.
// With --image the persisted array is loaded from and saved back to a
// file, so contents survive between invocations like real EEPROM.
type simBackend struct {
	sim   *eeprom.Simulator
	image string
}

func openSim(image string) (backend, error) {
	b := &simBackend{
		sim:   eeprom.NewSimulator(),
		image: image,
	}

	if image != "" {
		img, err := os.ReadFile(image)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			b.sim.LoadImage(img)
		}
	}

	return b, nil
}

func (b *simBackend) Registers() eeprom.Registers {
	return b.sim
}

func (b *simBackend) Close() error {
	if b.image == "" {
		return nil
	}
	return os.WriteFile(b.image, b.sim.Snapshot(), 0644)
}
