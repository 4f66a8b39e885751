package main

import "napd/internal/config"

// configFixture keeps the merge tests terse.
func configFixture(addr, backend, level string) config.Config {
	return config.Config{Addr: addr, Backend: backend, LogLevel: level}
}
