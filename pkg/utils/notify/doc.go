// Package notify provides utilities for sending formatted notifications to CLI users.
//
// Message types include success (✔), error (✗), warning (⚠), info (ℹ), activity (►),
// generate (✚), and title messages with customizable emojis. Colour output follows
// NO_COLOR, see [ConfigureColor].
package notify
