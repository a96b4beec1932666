// Package command encodes stimulation intents into fixed-width command words.
package command

// A command word is the unit of transfer on the stimulator bus. It carries
// a register address in the top bits and an 8-bit payload in the lowest
// byte, and is shifted out most significant byte first.
//
// 24-bit words: [addr_mid, addr_low, payload]
// 32-bit words: [addr_high, addr_mid, addr_low, payload]
//
// For the 4-byte stimulator, addr_high is the command byte (opcode and
// flags), addr_mid selects the register and addr_low with the payload
// forms the 16-bit register value.
//
// Encoding never fails. Inputs wider than their field are masked, which
// matches the register width of the device.
