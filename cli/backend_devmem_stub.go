//go:build !linux

package main

import "errors"

func openDevmem(base uint64) (backend, error) {
	return nil, errors.New("the devmem backend is only available on linux")
}
