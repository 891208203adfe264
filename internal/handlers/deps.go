package handlers

import (
	"github.com/lanwatch-dev/lanwatch/internal/incidents"
	"github.com/lanwatch-dev/lanwatch/internal/scheduler"
)

var (
	manager *incidents.Manager
	state   *scheduler.NetworkState
)

// Configure wires the handlers to the running monitor. Must be called
// before the router starts serving.
func Configure(m *incidents.Manager, st *scheduler.NetworkState) {
	manager = m
	state = st
}
