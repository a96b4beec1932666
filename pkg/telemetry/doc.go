// Package telemetry publishes stimulation loop status over MQTT.
package telemetry
