// Package stim runs the stimulation loop.
package stim

// The loop is the single real-time task of the process. It starts only
// after the initialization script completed and keeps transferring its
// cycle until stopped. Stopping always ends with the safe-state script so
// the outputs are off before the bus is closed.
