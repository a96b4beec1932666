// Package bus owns the synchronous serial bus to the stimulator.
package bus

// A Session is opened once at startup from a Config and a registered
// driver, transfers one command word per call and is closed on shutdown.
// No retries happen here; failures surface as *OpenError or
// *TransferError and the caller applies its policy.
//
// Drivers:
//   spidev    - Linux spidev node via periph.io
//   spidriver - Excamera SPIDriver USB adapter on a serial port
//   loopback  - echoes MOSI to MISO, no hardware
