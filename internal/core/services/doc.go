// Package services implements the driving port interfaces.
// Services contain the console's session logic and orchestrate
// calls to driven ports (adapters).
package services
